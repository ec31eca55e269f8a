// Package sharesheet composes URL construction, availability checks and
// platform dispatch into a single orchestrator, the surface a presentation
// layer builds its share panel from.
//
// Every fallible operation here resolves to a sentinel (no-op, unchanged
// state) instead of an error. Uninterrupted UI flow is preferred over error
// visibility; diagnostics go through the advisory warning channel.
package sharesheet

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sharesheet/sharesheet/pkg/device"
	httputil "github.com/sharesheet/sharesheet/pkg/http"
	"github.com/sharesheet/sharesheet/pkg/sharetarget"
	"github.com/sharesheet/sharesheet/pkg/shareurl"
)

// DefaultCopyResetDelay is how long the copied flag stays set after a
// successful copy.
const DefaultCopyResetDelay = 1200 * time.Millisecond

// defaultDownloadFilename is used when no download filename is configured.
const defaultDownloadFilename = "download"

// Options configures a Sheet. Collaborator interfaces left nil turn the
// corresponding action into a no-op.
type Options struct {
	ShareURL         string
	ShareText        string
	DownloadURL      string
	DownloadFilename string
	EmailSubject     string

	// CurrentLocation is the fallback share URL when ShareURL is empty,
	// the host page's own address.
	CurrentLocation string

	// Event sinks, invoked synchronously after the corresponding state
	// transition commits. A missing sink is simply not invoked.
	OnCopy        func()
	OnNativeShare func()
	OnDownload    func()

	Clipboard Clipboard
	Opener    Opener
	Sharer    NativeSharer
	Saver     FileSaver

	// Signals supplies device facts for availability verdicts. Nil means
	// no device information; native share availability then follows from
	// Sharer presence alone.
	Signals device.SignalsProvider

	// HTTP overrides the download transport configuration.
	HTTP *httputil.ClientConfig

	// CopyResetDelay overrides DefaultCopyResetDelay. Tests shorten it.
	CopyResetDelay time.Duration
}

// Sheet is the share orchestrator. All methods are safe for concurrent use.
type Sheet struct {
	opts   Options
	client *httputil.Client

	mu          sync.Mutex
	shareURL    string
	copied      bool
	downloading bool
	copyGen     uint64
}

// New creates a Sheet from options, filling defaults.
func New(opts Options) *Sheet {
	if opts.EmailSubject == "" {
		opts.EmailSubject = "Share"
	}
	if opts.CopyResetDelay <= 0 {
		opts.CopyResetDelay = DefaultCopyResetDelay
	}

	return &Sheet{
		opts:     opts,
		client:   httputil.NewClient(opts.HTTP),
		shareURL: opts.ShareURL,
	}
}

// currentSignals queries the signals provider fresh on every call, so a
// provider whose facts change (orientation, capability grants) is always
// reflected in the next verdict.
func (s *Sheet) currentSignals() device.Signals {
	if s.opts.Signals != nil {
		return s.opts.Signals.Signals()
	}
	return device.Signals{NativeShare: s.opts.Sharer != nil}
}

// SetShareURL changes the shared URL; SafeURL reflects the change
// immediately.
func (s *Sheet) SetShareURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shareURL = url
}

// SafeURL returns the configured share URL, falling back to the current page
// location when the share URL is empty. No trimming is applied.
func (s *Sheet) SafeURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shareURL != "" {
		return s.shareURL
	}
	return s.opts.CurrentLocation
}

// Copied reports whether a copy recently succeeded. It auto-resets after the
// configured delay.
func (s *Sheet) Copied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copied
}

// Downloading reports whether a download is in progress.
func (s *Sheet) Downloading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.downloading
}

// CanNativeShare reports whether a native share capability is present.
func (s *Sheet) CanNativeShare() bool {
	return s.opts.Sharer != nil
}

// PlatformAvailability returns the advisory availability verdict for every
// registered target on this device.
func (s *Sheet) PlatformAvailability() map[sharetarget.Target]device.Availability {
	return device.CheckAll(s.currentSignals())
}

// CopyLink writes the safe URL to the clipboard. On success it sets the
// copied flag, fires the OnCopy sink and schedules the flag reset; a rapid
// second copy re-arms the pending reset rather than racing it. A clipboard
// failure leaves all state unchanged.
func (s *Sheet) CopyLink() {
	url := s.SafeURL()
	if url == "" || s.opts.Clipboard == nil {
		return
	}

	if err := s.opts.Clipboard.WriteText(url); err != nil {
		slog.Debug("Clipboard write failed", "error", err)
		return
	}

	s.mu.Lock()
	s.copied = true
	s.copyGen++
	gen := s.copyGen
	s.mu.Unlock()

	// The generation check makes an already-fired older timer a no-op, so a
	// rapid re-copy never has its flag cleared by the previous reset.
	time.AfterFunc(s.opts.CopyResetDelay, func() {
		s.mu.Lock()
		if s.copyGen == gen {
			s.copied = false
		}
		s.mu.Unlock()
	})

	if s.opts.OnCopy != nil {
		s.opts.OnCopy()
	}
}

// NativeShare dispatches to the native share capability. Rejection covers
// deliberate user dismissal on many platforms, so any error is treated as a
// no-op rather than a failure.
func (s *Sheet) NativeShare(ctx context.Context) {
	url := s.SafeURL()
	if url == "" || s.opts.Sharer == nil {
		return
	}

	err := s.opts.Sharer.Share(ctx, SharePayload{
		Title: s.opts.ShareText,
		Text:  s.opts.ShareText,
		URL:   url,
	})
	if err != nil {
		slog.Debug("Native share dismissed or failed", "error", err)
		return
	}

	if s.opts.OnNativeShare != nil {
		s.opts.OnNativeShare()
	}
}

// DownloadFile fetches the configured download URL and hands the body to the
// file saver. The downloading flag is reset on every exit path. All failures
// are silent: the busy indicator simply clears with no file saved.
func (s *Sheet) DownloadFile(ctx context.Context) {
	url := strings.TrimSpace(s.opts.DownloadURL)
	if url == "" {
		return
	}

	s.mu.Lock()
	s.downloading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.downloading = false
		s.mu.Unlock()
	}()

	if s.opts.OnDownload != nil {
		s.opts.OnDownload()
	}

	resp, err := s.client.GetWithContext(ctx, url)
	if err != nil {
		slog.Debug("Download fetch failed", "url", url, "error", err)
		return
	}
	defer resp.Body.Close()

	if err := httputil.EnsureStatusOK(resp); err != nil {
		slog.Debug("Download rejected", "url", url, "error", err)
		return
	}

	if s.opts.Saver == nil {
		return
	}

	filename := s.opts.DownloadFilename
	if filename == "" {
		filename = defaultDownloadFilename
	}

	if err := s.opts.Saver.Save(filename, resp.Body); err != nil {
		slog.Debug("Saving download failed", "filename", filename, "error", err)
	}
}

// ShareWhatsApp opens the WhatsApp share intent in a new context.
func (s *Sheet) ShareWhatsApp() {
	s.open(shareurl.WhatsApp(s.SafeURL(), s.opts.ShareText))
}

// ShareTelegram opens the Telegram share intent.
func (s *Sheet) ShareTelegram() {
	s.open(shareurl.Telegram(s.SafeURL(), s.opts.ShareText))
}

// ShareX opens the X tweet intent.
func (s *Sheet) ShareX() {
	s.open(shareurl.X(s.SafeURL(), s.opts.ShareText))
}

// ShareFacebook opens the Facebook sharer.
func (s *Sheet) ShareFacebook() {
	s.open(shareurl.Facebook(s.SafeURL()))
}

// ShareLinkedIn opens the LinkedIn share-offsite intent.
func (s *Sheet) ShareLinkedIn() {
	s.open(shareurl.LinkedIn(s.SafeURL()))
}

// ShareReddit opens the Reddit submit page.
func (s *Sheet) ShareReddit() {
	s.open(shareurl.Reddit(s.SafeURL(), s.opts.ShareText))
}

// ShareSnapchat opens the Snapchat scan page.
func (s *Sheet) ShareSnapchat() {
	s.open(shareurl.Snapchat(s.SafeURL()))
}

// ShareInstagram attempts an Instagram app switch. On devices where the
// heuristic says it won't work the attempt still proceeds after a warning;
// the app may be installed regardless.
func (s *Sheet) ShareInstagram() {
	s.attemptScheme(sharetarget.Instagram, shareurl.Instagram())
}

// ShareTikTok attempts a TikTok app switch.
func (s *Sheet) ShareTikTok() {
	s.attemptScheme(sharetarget.TikTok, shareurl.TikTok())
}

// ShareThreads attempts a Threads app switch.
func (s *Sheet) ShareThreads() {
	s.attemptScheme(sharetarget.Threads, shareurl.Threads())
}

// ShareSMS navigates to an sms: URI carrying the share text and URL.
func (s *Sheet) ShareSMS() {
	s.attemptScheme(sharetarget.SMS, shareurl.SMS(s.SafeURL(), s.opts.ShareText))
}

// ShareEmail navigates to a mailto: URI with the configured subject.
func (s *Sheet) ShareEmail() {
	s.navigate(shareurl.Email(s.SafeURL(), s.opts.ShareText, s.opts.EmailSubject))
}

// Share dispatches to the action for a target. Unknown targets are ignored.
func (s *Sheet) Share(ctx context.Context, target sharetarget.Target) {
	switch target {
	case sharetarget.Copy:
		s.CopyLink()
	case sharetarget.Native:
		s.NativeShare(ctx)
	case sharetarget.Download:
		s.DownloadFile(ctx)
	case sharetarget.WhatsApp:
		s.ShareWhatsApp()
	case sharetarget.Telegram:
		s.ShareTelegram()
	case sharetarget.X:
		s.ShareX()
	case sharetarget.Facebook:
		s.ShareFacebook()
	case sharetarget.Instagram:
		s.ShareInstagram()
	case sharetarget.TikTok:
		s.ShareTikTok()
	case sharetarget.Threads:
		s.ShareThreads()
	case sharetarget.Snapchat:
		s.ShareSnapchat()
	case sharetarget.SMS:
		s.ShareSMS()
	case sharetarget.Email:
		s.ShareEmail()
	case sharetarget.LinkedIn:
		s.ShareLinkedIn()
	default:
		slog.Warn("Unknown share target", "target", target)
	}
}

// attemptScheme warns when the availability heuristic says the target won't
// work here, then navigates anyway.
func (s *Sheet) attemptScheme(target sharetarget.Target, uri string) {
	if verdict := device.Check(target, s.currentSignals()); !verdict.Available {
		device.WarnUnavailable(target, verdict.Reason)
	}
	s.navigate(uri)
}

func (s *Sheet) open(url string) {
	if s.opts.Opener == nil {
		return
	}
	if err := s.opts.Opener.OpenURL(url); err != nil {
		slog.Debug("Failed to open share URL", "url", url, "error", err)
	}
}

func (s *Sheet) navigate(uri string) {
	if s.opts.Opener == nil {
		return
	}
	if err := s.opts.Opener.Navigate(uri); err != nil {
		slog.Debug("Failed to navigate to share URI", "uri", uri, "error", err)
	}
}
