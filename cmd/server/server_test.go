package main

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sip-plugins/overlays/db"
	"github.com/sip-plugins/overlays/diurnal"
	"github.com/sip-plugins/overlays/overlay"
	"github.com/sip-plugins/overlays/pressure"
	"github.com/sip-plugins/overlays/schedule"
	"github.com/sip-plugins/overlays/settings"
	"github.com/sip-plugins/overlays/watcher"
)

func TestServer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Server Suite")
}

var _ = Describe("Server", func() {
	var (
		tempDir string
		conn    *sql.DB
		page    *schedule.Page
		server  *httptest.Server
	)
	today := time.Date(2025, 6, 21, 0, 0, 0, 0, time.Local)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "server-test")
		Expect(err).NotTo(HaveOccurred())
		conn, err = db.OpenDB(filepath.Join(tempDir, "overlays.db"))
		Expect(err).NotTo(HaveOccurred())
		store, err := settings.Load(filepath.Join(tempDir, "overlays.yaml"))
		Expect(err).NotTo(HaveOccurred())

		page = schedule.NewPage("/", []string{"lawn"}, schedule.DayTicks(), schedule.NewDateDisplay(today))
		server = httptest.NewServer(newRouter(conn, store, page))
	})

	AfterEach(func() {
		server.Close()
		conn.Close()
		os.RemoveAll(tempDir)
	})

	home := func() string {
		resp, err := http.Get(server.URL + "/")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return string(body)
	}

	It("draws both overlays on the home page after a date change", func() {
		Expect(db.SaveSample(conn, 42, today.Add(7*time.Hour))).To(Succeed())
		client := overlay.NewClient(server.URL, nil)
		ctx := context.Background()
		Expect(watcher.Watch(page, watcher.Async(ctx, "diurnal", diurnal.NewRenderer(client, page)))).To(BeTrue())
		Expect(watcher.Watch(page, watcher.Async(ctx, "pressure", pressure.NewRenderer(client, page)))).To(BeTrue())

		Eventually(home).Should(ContainSubstring("<tr id='pressureGraphRow'>"))
		Eventually(home).Should(ContainSubstring("background-size: cover;"))
		Expect(home()).To(ContainSubstring("420,18"))

		page.DateDisplay().SetDate(today.AddDate(0, 0, 1))
		Eventually(home).Should(ContainSubstring("1439,60"))
		Expect(page.Rows()).To(HaveLen(1))
	})

	It("navigates to another date", func() {
		noRedirect := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}}
		resp, err := noRedirect.Get(server.URL + "/schedule?date=2025-07-01")
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
		Expect(home()).To(ContainSubstring(">2025-07-01</div>"))
	})

	It("exposes metrics", func() {
		resp, err := http.Get(server.URL + "/metrics")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})
})
