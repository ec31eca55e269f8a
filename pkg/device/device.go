// Package device classifies the current device and decides per-platform share
// availability. The verdicts are advisory: a negative verdict should hide a
// button or log a warning, never hard-block the attempt, since an app-scheme
// URI may still resolve on a desktop with the app installed.
package device

import (
	"log/slog"
	"strings"

	"github.com/sharesheet/sharesheet/pkg/sharetarget"
)

// Signals carries the device facts availability decisions are made from.
// Touch is a secondary signal and never overrides the user-agent verdict:
// a desktop browser with a touchscreen still classifies as desktop.
type Signals struct {
	UserAgent   string
	Touch       bool
	NativeShare bool
}

// SignalsProvider supplies device signals. Production callers wrap whatever
// host environment they run in; tests substitute fixed values.
type SignalsProvider interface {
	Signals() Signals
}

// StaticSignals is a SignalsProvider returning a fixed Signals value.
type StaticSignals Signals

// Signals implements SignalsProvider.
func (s StaticSignals) Signals() Signals { return Signals(s) }

// Availability is the advisory verdict for one target on one device.
type Availability struct {
	Available bool
	Reason    string
}

// mobileTokens are the user-agent substrings that classify a device as
// mobile. Matching is case-insensitive.
var mobileTokens = []string{
	"android",
	"iphone",
	"ipad",
	"ipod",
	"webos",
	"blackberry",
	"iemobile",
	"opera mini",
	"windows phone",
}

// IsMobile reports whether the user agent identifies a mobile device.
func IsMobile(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, token := range mobileTokens {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}

// mobileOnlyTargets can only perform a share through an installed native app,
// so they are flagged unavailable on desktop devices.
var mobileOnlyTargets = map[sharetarget.Target]bool{
	sharetarget.Instagram: true,
	sharetarget.TikTok:    true,
	sharetarget.Threads:   true,
	sharetarget.SMS:       true,
}

// Check returns the availability verdict for a target given device signals.
// It is a pure function: repeated calls with unchanged signals return
// identical results, and nothing is cached.
func Check(target sharetarget.Target, sig Signals) Availability {
	switch {
	case mobileOnlyTargets[target]:
		if IsMobile(sig.UserAgent) {
			return Availability{Available: true}
		}
		if target == sharetarget.SMS {
			return Availability{Reason: "SMS sharing requires a mobile device"}
		}
		return Availability{Reason: sharetarget.Label(target) + " requires a mobile device with the app installed"}

	case target == sharetarget.Native:
		if sig.NativeShare {
			return Availability{Available: true}
		}
		return Availability{Reason: "Native share is not supported by this browser"}

	default:
		return Availability{Available: true}
	}
}

// CheckAll evaluates every registered target against the same signals.
func CheckAll(sig Signals) map[sharetarget.Target]Availability {
	out := make(map[sharetarget.Target]Availability)
	for _, id := range sharetarget.IDs() {
		out[id] = Check(id, sig)
	}
	return out
}

// WarnUnavailable emits the diagnostic for an attempt on an unavailable
// platform. The attempt itself still proceeds.
func WarnUnavailable(target sharetarget.Target, reason string) {
	slog.Warn("Share platform not available on this device", "platform", target, "reason", reason)
}
