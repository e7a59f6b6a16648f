package diurnal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sip-plugins/overlays/overlay"
	"github.com/sip-plugins/overlays/schedule"
	"github.com/sip-plugins/overlays/settings"
)

func TestDiurnal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Diurnal Suite")
}

var day = Data{Sunrise: 21600, Sunset: 72000}

var _ = Describe("Classify", func() {
	It("fully shades a tick five minutes before sunrise", func() {
		band, ok := Classify(21300, day)
		Expect(ok).To(BeTrue())
		Expect(band).To(Equal(Band{Left: 0, Width: 100}))
	})

	It("partially shades the tick containing sunrise", func() {
		band, ok := Classify(21570, day)
		Expect(ok).To(BeTrue())
		Expect(band).To(Equal(Band{Left: 0, Width: 50}))
	})

	It("leaves daytime ticks unshaded", func() {
		_, ok := Classify(21900, day)
		Expect(ok).To(BeFalse())
		_, ok = Classify(21660, day)
		Expect(ok).To(BeFalse())
		_, ok = Classify(71940, day)
		Expect(ok).To(BeFalse())
	})

	It("shades a tick after sunset across the full width", func() {
		band, ok := Classify(72120, day)
		Expect(ok).To(BeTrue())
		Expect(band).To(Equal(Band{Left: 0, Width: 100}))
	})

	It("shades the right part of the tick containing sunset", func() {
		band, ok := Classify(71970, day)
		Expect(ok).To(BeTrue())
		Expect(band).To(Equal(Band{Left: 50, Width: 100}))
	})

	It("always clamps the band to [0, 100]", func() {
		for _, d := range []Data{day, {Sunrise: 0, Sunset: 86400}, {Sunrise: 30000, Sunset: 25000}} {
			for minutes := 0; minutes < 1440; minutes++ {
				band, ok := Classify(minutes*60, d)
				if !ok {
					continue
				}
				Expect(band.Left).To(BeNumerically(">=", 0))
				Expect(band.Left).To(BeNumerically("<=", 100))
				Expect(band.Width).To(BeNumerically(">=", 0))
				Expect(band.Width).To(BeNumerically("<=", 100))
			}
		}
	})
})

var _ = Describe("BackgroundSVG", func() {
	It("builds an escaped SVG data url", func() {
		Expect(BackgroundSVG(0, 83.5)).To(Equal(
			`url("data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 100 100'%3E` +
				`%3Crect x='0' y='0' width='83.5' height='100' fill='rgba(0,0,139,.15)'/%3E%3C/svg%3E")`))
	})
})

var _ = Describe("Compute", func() {
	It("finds sunrise and sunset in local seconds", func() {
		d := Compute(time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), 51.5, 0, time.UTC)
		Expect(d.Sunrise).To(BeNumerically("~", 3*3600+43*60, 15*60))
		Expect(d.Sunset).To(BeNumerically("~", 20*3600+21*60, 15*60))
	})

	It("converts to the requested location", func() {
		loc := time.FixedZone("UTC+2", 2*3600)
		utc := Compute(time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), 51.5, 0, time.UTC)
		local := Compute(time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), 51.5, 0, loc)
		Expect(local.Sunrise - utc.Sunrise).To(Equal(2 * 3600))
	})

	It("shades every tick during polar night", func() {
		d := Compute(time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC), 85, 0, time.UTC)
		Expect(d).To(Equal(Data{Sunrise: 86400, Sunset: 0}))
		for _, secs := range []int{0, 6 * 3600, 12 * 3600, 23*3600 + 59*60} {
			band, ok := Classify(secs, d)
			Expect(ok).To(BeTrue())
			Expect(band.Width).To(Equal(100.0))
		}
	})

	It("leaves polar days unshaded", func() {
		d := Compute(time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), 85, 0, time.UTC)
		Expect(d).To(Equal(Data{Sunrise: 0, Sunset: 86400}))
		_, ok := Classify(12*3600, d)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Renderer", func() {
	var (
		server   *httptest.Server
		page     *schedule.Page
		renderer *Renderer
		status   int
		onFetch  func()
	)
	date := time.Date(2025, 6, 21, 0, 0, 0, 0, time.Local)

	BeforeEach(func() {
		status = http.StatusOK
		onFetch = func() {}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			onFetch()
			if status != http.StatusOK {
				w.WriteHeader(status)
				return
			}
			Expect(r.URL.Path).To(Equal("/diurnal_display-data"))
			Expect(r.URL.Query().Get("date")).To(Equal("2025-06-21"))
			_ = json.NewEncoder(w).Encode(day)
		}))
		page = schedule.NewPage("/", []string{"a", "b"}, []int{355, 365, 1202}, schedule.NewDateDisplay(date))
		renderer = NewRenderer(overlay.NewClient(server.URL, nil), page)
	})

	AfterEach(func() {
		server.Close()
	})

	styles := func() []schedule.Style {
		var out []schedule.Style
		page.EachTick(func(t *schedule.Tick) { out = append(out, t.Style) })
		return out
	}

	It("shades night ticks and clears daytime ticks", func() {
		Expect(renderer.Render(context.Background(), date)).To(Succeed())
		s := styles()
		Expect(s).To(HaveLen(6))
		Expect(s[0].BackgroundImage).To(ContainSubstring("x='0' y='0' width='100'"))
		Expect(s[0].BackgroundSize).To(Equal("cover"))
		Expect(s[1]).To(Equal(schedule.Style{}))
		Expect(s[2].BackgroundImage).To(ContainSubstring("x='0' y='0' width='100'"))
	})

	It("is idempotent", func() {
		Expect(renderer.Render(context.Background(), date)).To(Succeed())
		first := styles()
		Expect(renderer.Render(context.Background(), date)).To(Succeed())
		Expect(styles()).To(Equal(first))
	})

	It("clears shading left over from a previous day", func() {
		page.EachTick(func(t *schedule.Tick) { t.Style = schedule.Style{BackgroundImage: "stale"} })
		Expect(renderer.Render(context.Background(), date)).To(Succeed())
		Expect(styles()[1]).To(Equal(schedule.Style{}))
	})

	It("keeps the previous styles when the request fails", func() {
		status = http.StatusInternalServerError
		page.EachTick(func(t *schedule.Tick) { t.Style = schedule.Style{BackgroundImage: "before"} })
		Expect(renderer.Render(context.Background(), date)).NotTo(Succeed())
		Expect(styles()).To(HaveEach(schedule.Style{BackgroundImage: "before"}))
	})

	It("discards a response when a newer render was issued meanwhile", func() {
		onFetch = func() { renderer.seq.Next() }
		before := testutil.ToFloat64(overlay.RendersTotal.WithLabelValues("diurnal", overlay.OutcomeStale))
		Expect(renderer.Render(context.Background(), date)).To(Succeed())
		Expect(styles()).To(HaveEach(schedule.Style{}))
		Expect(testutil.ToFloat64(overlay.RendersTotal.WithLabelValues("diurnal", overlay.OutcomeStale))).To(Equal(before + 1))
	})

	It("does nothing without a date display", func() {
		manual := schedule.NewPage("/", []string{"a"}, []int{0}, nil)
		r := NewRenderer(overlay.NewClient("http://127.0.0.1:1", nil), manual)
		Expect(r.Render(context.Background(), date)).To(Succeed())
	})
})

var _ = Describe("Handlers", func() {
	var tempDir string
	var store *settings.Store
	now := func() time.Time { return time.Date(2025, 6, 21, 12, 0, 0, 0, time.Local) }

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "diurnal-test")
		Expect(err).NotTo(HaveOccurred())
		store, err = settings.Load(filepath.Join(tempDir, "overlays.yaml"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	It("serves sunrise before sunset", func() {
		req := httptest.NewRequest(http.MethodGet, "/diurnal_display-data?date=2025-03-20", nil)
		w := httptest.NewRecorder()
		DataHandler(store, now)(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
		var d Data
		Expect(json.Unmarshal(w.Body.Bytes(), &d)).To(Succeed())
		Expect(d.Sunrise).To(BeNumerically(">=", 0))
		Expect(d.Sunset).To(BeNumerically("<", 86400))
	})

	It("defaults to today", func() {
		req := httptest.NewRequest(http.MethodGet, "/diurnal_display-data", nil)
		w := httptest.NewRecorder()
		DataHandler(store, now)(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("rejects malformed dates", func() {
		req := httptest.NewRequest(http.MethodGet, "/diurnal_display-data?date=21/06/2025", nil)
		w := httptest.NewRecorder()
		DataHandler(store, now)(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("saves the location and redirects home", func() {
		req := httptest.NewRequest(http.MethodGet, "/diurnal_display-save?lat=40.7&lon=-74", nil)
		w := httptest.NewRecorder()
		SaveHandler(store)(w, req)
		Expect(w.Code).To(Equal(http.StatusSeeOther))
		Expect(store.Get().Diurnal).To(Equal(settings.Diurnal{Lat: 40.7, Lon: -74}))

		w = httptest.NewRecorder()
		SettingsHandler(store)(w, httptest.NewRequest(http.MethodGet, "/diurnal_display-sp", nil))
		Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/html"))
		Expect(w.Body.String()).To(ContainSubstring(`action="/diurnal_display-save"`))
		Expect(w.Body.String()).To(ContainSubstring(`name="lat" value="40.7"`))
		Expect(w.Body.String()).To(ContainSubstring(`name="lon" value="-74"`))
	})

	It("rejects out of range coordinates", func() {
		req := httptest.NewRequest(http.MethodGet, "/diurnal_display-save?lat=100&lon=0", nil)
		w := httptest.NewRecorder()
		SaveHandler(store)(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
