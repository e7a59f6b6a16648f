package pressure

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/settings"
	"go.bug.st/serial"
)

// SaveFunc records one reading.
type SaveFunc func(psi int, t time.Time) error

// ParseReading accepts a bare integer or a JSON object {"psi": n}.
func ParseReading(payload []byte) (int, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) > 0 && payload[0] == '{' {
		var reading struct {
			PSI *int `json:"psi"`
		}
		if err := json.Unmarshal(payload, &reading); err != nil {
			return 0, fmt.Errorf("decoding reading: %w", err)
		}
		if reading.PSI == nil {
			return 0, fmt.Errorf("reading has no psi")
		}
		return *reading.PSI, nil
	}
	return strconv.Atoi(string(payload))
}

// Ingest records one reading per line of r, stamped with the time it was read.
// Invalid lines are logged and skipped.
func Ingest(ctx context.Context, r io.Reader, save SaveFunc, now func() time.Time) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		psi, err := ParseReading(line)
		if err != nil {
			log.Printf("Skipping pressure reading %q: %v", line, err)
			continue
		}
		t := now()
		log.Printf("[%s] %d psi", t.Format(consts.TimeOfDayFormat), psi)
		if err := save(psi, t); err != nil {
			log.Printf("Error writing to pressure log: %v", err)
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return scanner.Err()
}

// OpenSerial opens the sensor port and drops whatever it sent while booting.
func OpenSerial(portName string) (serial.Port, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: consts.SerialBaudRate})
	if err != nil {
		return nil, err
	}
	time.Sleep(consts.SerialSettleTime)
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, err
	}
	return port, nil
}

// MonitorSerial reads the sensor on portName until ctx is done. A missing
// sensor only disables pressure logging.
func MonitorSerial(ctx context.Context, portName string, save SaveFunc) {
	port, err := OpenSerial(portName)
	if err != nil {
		log.Printf("No pressure monitor detected on %s: %v", portName, err)
		return
	}
	log.Print("Begin monitoring pressure")
	go func() {
		<-ctx.Done()
		_ = port.Close()
	}()
	if err := Ingest(ctx, port, save, time.Now); err != nil && ctx.Err() == nil {
		log.Printf("Pressure monitor failure: %v", err)
	}
}

// MessageHandler records MQTT readings.
func MessageHandler(save SaveFunc, now func() time.Time) mqtt.MessageHandler {
	return func(_ mqtt.Client, m mqtt.Message) {
		psi, err := ParseReading(m.Payload())
		if err != nil {
			log.Printf("Skipping pressure message on %s: %v", m.Topic(), err)
			return
		}
		if err := save(psi, now()); err != nil {
			log.Printf("Error writing to pressure log: %v", err)
		}
	}
}

// onConnect subscribes to topic on every connect, reconnects included.
func onConnect(topic string, save SaveFunc, now func() time.Time) mqtt.OnConnectHandler {
	handler := MessageHandler(save, now)
	return func(c mqtt.Client) {
		token := c.Subscribe(topic, 0, handler)
		if token.Wait() && token.Error() != nil {
			log.Printf("Error subscribing to %s: %v", topic, token.Error())
			return
		}
		log.Printf("Receiving pressure readings on %s", topic)
	}
}

// SubscribeMQTT connects to the configured broker in the background and
// records every reading published on the topic. A broker that is down at
// startup is retried until it comes up.
func SubscribeMQTT(cfg settings.MQTT, save SaveFunc) mqtt.Client {
	host, _ := os.Hostname()
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID("overlays-" + host).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOnConnectHandler(onConnect(cfg.Topic, save, time.Now))
	c := mqtt.NewClient(opts)
	token := c.Connect()
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Printf("Error connecting to %s: %v", cfg.Broker, token.Error())
		}
	}()
	return c
}
