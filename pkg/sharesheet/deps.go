package sharesheet

import (
	"context"
	"io"
)

// Clipboard is write-only text clipboard access. A write failure (permission
// denied, no clipboard available) is absorbed by the orchestrator, never
// surfaced.
type Clipboard interface {
	WriteText(text string) error
}

// Opener dispatches constructed share URLs. Web-intent URLs open in a new,
// cross-origin-isolated context via OpenURL; app-scheme URIs navigate the
// current document via Navigate.
type Opener interface {
	OpenURL(url string) error
	Navigate(url string) error
}

// SharePayload is the data handed to a native share dispatch.
type SharePayload struct {
	Title string
	Text  string
	URL   string
}

// NativeSharer is the optional OS-level share capability. An error return
// covers both real failures and deliberate user dismissal, so the
// orchestrator treats it as a no-op either way.
type NativeSharer interface {
	Share(ctx context.Context, payload SharePayload) error
}

// FileSaver receives a downloaded resource body and persists it under the
// given filename.
type FileSaver interface {
	Save(filename string, body io.Reader) error
}
