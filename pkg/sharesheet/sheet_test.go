package sharesheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sharesheet/sharesheet/pkg/device"
	"github.com/sharesheet/sharesheet/pkg/sharetarget"
)

type fakeClipboard struct {
	mu       sync.Mutex
	texts    []string
	failWith error
}

func (f *fakeClipboard) WriteText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.texts = append(f.texts, text)
	return nil
}

type fakeOpener struct {
	mu        sync.Mutex
	opened    []string
	navigated []string
}

func (f *fakeOpener) OpenURL(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, url)
	return nil
}

func (f *fakeOpener) Navigate(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, url)
	return nil
}

type fakeSharer struct {
	payloads []SharePayload
	failWith error
}

func (f *fakeSharer) Share(_ context.Context, payload SharePayload) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeSaver struct {
	filename string
	body     []byte
	failWith error
}

func (f *fakeSaver) Save(filename string, body io.Reader) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.filename = filename
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.body = data
	return nil
}

const desktopUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"

func TestSafeURL(t *testing.T) {
	tests := []struct {
		name     string
		shareURL string
		location string
		want     string
	}{
		{"configured url wins", "https://example.com", "https://current-page.com", "https://example.com"},
		{"empty falls back to location", "", "https://current-page.com", "https://current-page.com"},
		{"no trimming applied", "  https://example.com  ", "https://current-page.com", "  https://example.com  "},
		{"both empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{ShareURL: tt.shareURL, CurrentLocation: tt.location})
			if got := s.SafeURL(); got != tt.want {
				t.Errorf("SafeURL() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestSetShareURL(t *testing.T) {
	s := New(Options{ShareURL: "", CurrentLocation: "https://current-page.com"})

	if got := s.SafeURL(); got != "https://current-page.com" {
		t.Fatalf("SafeURL() = %q before update", got)
	}

	s.SetShareURL("https://example.com")
	if got := s.SafeURL(); got != "https://example.com" {
		t.Errorf("SafeURL() = %q after update, expected https://example.com", got)
	}
}

func TestCopyLinkLifecycle(t *testing.T) {
	clipboard := &fakeClipboard{}
	var copies int
	s := New(Options{
		ShareURL:       "https://example.com",
		Clipboard:      clipboard,
		OnCopy:         func() { copies++ },
		CopyResetDelay: 20 * time.Millisecond,
	})

	s.CopyLink()

	if !s.Copied() {
		t.Error("Copied() = false immediately after successful copy")
	}
	if copies != 1 {
		t.Errorf("OnCopy fired %d times, expected 1", copies)
	}
	if len(clipboard.texts) != 1 || clipboard.texts[0] != "https://example.com" {
		t.Errorf("clipboard content = %v", clipboard.texts)
	}

	time.Sleep(60 * time.Millisecond)
	if s.Copied() {
		t.Error("Copied() still true after reset delay")
	}
	if copies != 1 {
		t.Errorf("OnCopy fired %d times after reset, expected 1", copies)
	}
}

// A second copy inside the reset window re-arms the pending reset; after the
// second delay elapses the flag is down and stays down.
func TestCopyLinkRearmsTimer(t *testing.T) {
	clipboard := &fakeClipboard{}
	s := New(Options{
		ShareURL:       "https://example.com",
		Clipboard:      clipboard,
		CopyResetDelay: 40 * time.Millisecond,
	})

	s.CopyLink()
	time.Sleep(25 * time.Millisecond)
	s.CopyLink()

	// The first timer would have fired by now if it were still armed.
	time.Sleep(25 * time.Millisecond)
	if !s.Copied() {
		t.Error("Copied() reset by superseded timer")
	}

	time.Sleep(40 * time.Millisecond)
	if s.Copied() {
		t.Error("Copied() still true after re-armed delay elapsed")
	}
}

func TestCopyLinkFiredStaleResetIsDiscarded(t *testing.T) {
	clipboard := &fakeClipboard{}
	s := New(Options{
		ShareURL:       "https://example.com",
		Clipboard:      clipboard,
		CopyResetDelay: 20 * time.Millisecond,
	})

	s.CopyLink()
	// Re-copy right around the first reset's deadline, so the first timer
	// may already have fired before the second copy commits.
	time.Sleep(19 * time.Millisecond)
	s.CopyLink()

	time.Sleep(10 * time.Millisecond)
	if !s.Copied() {
		t.Error("Copied() cleared by the first copy's reset")
	}

	time.Sleep(20 * time.Millisecond)
	if s.Copied() {
		t.Error("Copied() still true after the second delay elapsed")
	}
}

func TestCopyLinkFailureIsSilent(t *testing.T) {
	var copies int
	s := New(Options{
		ShareURL:  "https://example.com",
		Clipboard: &fakeClipboard{failWith: errors.New("denied")},
		OnCopy:    func() { copies++ },
	})

	s.CopyLink()

	if s.Copied() {
		t.Error("Copied() = true after failed clipboard write")
	}
	if copies != 0 {
		t.Errorf("OnCopy fired %d times on failure, expected 0", copies)
	}
}

func TestCopyLinkWithoutClipboard(t *testing.T) {
	s := New(Options{ShareURL: "https://example.com"})
	s.CopyLink() // must not panic
	if s.Copied() {
		t.Error("Copied() = true with no clipboard")
	}
}

func TestNativeShare(t *testing.T) {
	sharer := &fakeSharer{}
	var shares int
	s := New(Options{
		ShareURL:      "https://example.com",
		ShareText:     "Check this out!",
		Sharer:        sharer,
		OnNativeShare: func() { shares++ },
	})

	if !s.CanNativeShare() {
		t.Error("CanNativeShare() = false with sharer present")
	}

	s.NativeShare(context.Background())

	if len(sharer.payloads) != 1 {
		t.Fatalf("sharer received %d payloads, expected 1", len(sharer.payloads))
	}
	want := SharePayload{Title: "Check this out!", Text: "Check this out!", URL: "https://example.com"}
	if sharer.payloads[0] != want {
		t.Errorf("payload = %+v, expected %+v", sharer.payloads[0], want)
	}
	if shares != 1 {
		t.Errorf("OnNativeShare fired %d times, expected 1", shares)
	}
}

// User dismissal surfaces as an error from the sharer; it is absorbed and
// the sink is not invoked.
func TestNativeShareDismissalIsSilent(t *testing.T) {
	var shares int
	s := New(Options{
		ShareURL:      "https://example.com",
		Sharer:        &fakeSharer{failWith: errors.New("share canceled")},
		OnNativeShare: func() { shares++ },
	})

	s.NativeShare(context.Background())

	if shares != 0 {
		t.Errorf("OnNativeShare fired %d times on dismissal, expected 0", shares)
	}
}

func TestNativeShareWithoutCapability(t *testing.T) {
	s := New(Options{ShareURL: "https://example.com"})
	if s.CanNativeShare() {
		t.Error("CanNativeShare() = true with no sharer")
	}
	s.NativeShare(context.Background()) // no-op, must not panic
}

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "file-content")
	}))
	defer srv.Close()

	saver := &fakeSaver{}
	var downloads int
	s := New(Options{
		DownloadURL:      srv.URL,
		DownloadFilename: "report.pdf",
		Saver:            saver,
		OnDownload:       func() { downloads++ },
	})

	s.DownloadFile(context.Background())

	if s.Downloading() {
		t.Error("Downloading() still true after completion")
	}
	if downloads != 1 {
		t.Errorf("OnDownload fired %d times, expected 1", downloads)
	}
	if saver.filename != "report.pdf" {
		t.Errorf("saved filename = %q, expected report.pdf", saver.filename)
	}
	if string(saver.body) != "file-content" {
		t.Errorf("saved body = %q", saver.body)
	}
}

func TestDownloadFileDefaultFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "x")
	}))
	defer srv.Close()

	saver := &fakeSaver{}
	s := New(Options{DownloadURL: srv.URL, Saver: saver})
	s.DownloadFile(context.Background())

	if saver.filename != "download" {
		t.Errorf("saved filename = %q, expected download", saver.filename)
	}
}

func TestDownloadFileFinalizer(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		closed  bool
	}{
		{
			name:    "non-OK response",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) },
		},
		{
			name:    "network error",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			closed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			if tt.closed {
				srv.Close()
			} else {
				defer srv.Close()
			}

			saver := &fakeSaver{}
			s := New(Options{DownloadURL: srv.URL, Saver: saver})
			s.DownloadFile(context.Background())

			if s.Downloading() {
				t.Error("Downloading() still true after failed download")
			}
			if saver.filename != "" {
				t.Errorf("saver invoked on failure with %q", saver.filename)
			}
		})
	}
}

func TestDownloadFileBusyWhilePending(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, "slow")
	}))
	defer srv.Close()

	s := New(Options{DownloadURL: srv.URL, Saver: &fakeSaver{}})

	done := make(chan struct{})
	go func() {
		s.DownloadFile(context.Background())
		close(done)
	}()

	// The busy flag must be observable while the fetch is pending.
	deadline := time.After(2 * time.Second)
	for !s.Downloading() {
		select {
		case <-deadline:
			t.Fatal("Downloading() never became true")
		case <-time.After(time.Millisecond):
		}
	}

	close(release)
	<-done

	if s.Downloading() {
		t.Error("Downloading() still true after settle")
	}
}

func TestDownloadFileWithoutURL(t *testing.T) {
	var downloads int
	s := New(Options{OnDownload: func() { downloads++ }})

	s.DownloadFile(context.Background())

	if downloads != 0 {
		t.Errorf("OnDownload fired %d times with no URL, expected 0", downloads)
	}
	if s.Downloading() {
		t.Error("Downloading() = true with no URL")
	}
}

func TestWebIntentsOpenInNewContext(t *testing.T) {
	opener := &fakeOpener{}
	s := New(Options{
		ShareURL:  "https://example.com",
		ShareText: "Check this out!",
		Opener:    opener,
	})

	s.ShareWhatsApp()
	s.ShareReddit()

	if len(opener.opened) != 2 {
		t.Fatalf("opened %d URLs, expected 2", len(opener.opened))
	}
	if len(opener.navigated) != 0 {
		t.Fatalf("navigated %d URIs, expected 0 for web intents", len(opener.navigated))
	}

	whatsapp := opener.opened[0]
	if !strings.Contains(whatsapp, "api.whatsapp.com") {
		t.Errorf("WhatsApp URL %q missing host", whatsapp)
	}
	if !strings.Contains(whatsapp, "Check%20this%20out!") {
		t.Errorf("WhatsApp URL %q missing encoded text", whatsapp)
	}

	reddit := opener.opened[1]
	if !strings.Contains(reddit, "reddit.com/submit") {
		t.Errorf("Reddit URL %q missing submit path", reddit)
	}
	if !strings.Contains(reddit, "url=https%3A%2F%2Fexample.com") {
		t.Errorf("Reddit URL %q missing encoded url parameter", reddit)
	}
	if !strings.Contains(reddit, "title=Check%20this%20out!") {
		t.Errorf("Reddit URL %q missing encoded title parameter", reddit)
	}
}

func TestSchemeTargetsNavigateCurrentDocument(t *testing.T) {
	opener := &fakeOpener{}
	s := New(Options{
		ShareURL:  "https://example.com",
		ShareText: "Look",
		Opener:    opener,
		Signals:   device.StaticSignals{UserAgent: desktopUA},
	})

	s.ShareInstagram()
	s.ShareSMS()
	s.ShareEmail()

	if len(opener.opened) != 0 {
		t.Fatalf("opened %d URLs, expected 0 for scheme targets", len(opener.opened))
	}
	want := []string{
		"instagram://",
		"sms:?body=Look%0Ahttps%3A%2F%2Fexample.com",
		"mailto:?subject=Share&body=Look%0A%0Ahttps%3A%2F%2Fexample.com",
	}
	if len(opener.navigated) != len(want) {
		t.Fatalf("navigated %d URIs, expected %d", len(opener.navigated), len(want))
	}
	for i := range want {
		if opener.navigated[i] != want[i] {
			t.Errorf("navigated[%d] = %q, expected %q", i, opener.navigated[i], want[i])
		}
	}
}

func TestShareDispatch(t *testing.T) {
	opener := &fakeOpener{}
	clipboard := &fakeClipboard{}
	s := New(Options{
		ShareURL:  "https://example.com",
		ShareText: "hi",
		Opener:    opener,
		Clipboard: clipboard,
	})

	s.Share(context.Background(), sharetarget.Telegram)
	s.Share(context.Background(), sharetarget.Copy)

	if len(opener.opened) != 1 || !strings.Contains(opener.opened[0], "t.me/share/url") {
		t.Errorf("Telegram dispatch opened %v", opener.opened)
	}
	if len(clipboard.texts) != 1 {
		t.Errorf("Copy dispatch wrote %d clipboard entries, expected 1", len(clipboard.texts))
	}
}

func TestPlatformAvailability(t *testing.T) {
	s := New(Options{
		Signals: device.StaticSignals{UserAgent: desktopUA},
	})

	verdicts := s.PlatformAvailability()

	if !verdicts[sharetarget.WhatsApp].Available {
		t.Error("whatsapp unavailable on desktop")
	}
	if verdicts[sharetarget.TikTok].Available {
		t.Error("tiktok available on desktop")
	}
	if verdicts[sharetarget.Native].Available {
		t.Error("native share available without capability")
	}
}

type mutableSignals struct {
	mu  sync.Mutex
	sig device.Signals
}

func (m *mutableSignals) Signals() device.Signals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sig
}

func (m *mutableSignals) set(sig device.Signals) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sig = sig
}

func TestPlatformAvailabilityTracksSignalChanges(t *testing.T) {
	provider := &mutableSignals{sig: device.Signals{UserAgent: desktopUA}}
	s := New(Options{Signals: provider})

	if s.PlatformAvailability()[sharetarget.SMS].Available {
		t.Fatal("sms available on desktop")
	}

	provider.set(device.Signals{
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15",
	})

	if !s.PlatformAvailability()[sharetarget.SMS].Available {
		t.Error("sms still unavailable after signals switched to a mobile device")
	}
}

func TestEmailSubjectDefault(t *testing.T) {
	opener := &fakeOpener{}
	s := New(Options{ShareURL: "https://example.com", Opener: opener})

	s.ShareEmail()

	if len(opener.navigated) != 1 || !strings.Contains(opener.navigated[0], "subject=Share") {
		t.Errorf("email URI = %v, expected default subject Share", opener.navigated)
	}
}
