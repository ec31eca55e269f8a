// Package shareurl constructs share-intent URLs and app-scheme deep links for
// external platforms. Every builder is a pure function of its inputs; opening
// the resulting URL is the caller's responsibility.
//
// The templates match each platform's web share endpoint as of implementation
// time. The endpoints themselves are external services and may change their
// parameters without notice.
package shareurl

import "strings"

const upperhex = "0123456789ABCDEF"

// Escape percent-encodes a single URL component. Unlike net/url.QueryEscape
// it encodes a space as %20 and leaves ! ~ * ' ( ) unescaped, matching the
// component encoding the platform endpoints are documented against.
func Escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '_' || c == '.' || c == '!' || c == '~' ||
			c == '*' || c == '\'' || c == '(' || c == ')':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		}
	}
	return b.String()
}

// WhatsApp returns a WhatsApp share URL carrying "text\nurl" as one message.
func WhatsApp(url, text string) string {
	return "https://api.whatsapp.com/send?text=" + Escape(text+"\n"+url)
}

// Telegram returns a Telegram share URL with independent url and text parameters.
func Telegram(url, text string) string {
	return "https://t.me/share/url?url=" + Escape(url) + "&text=" + Escape(text)
}

// X returns an X (Twitter) tweet-intent URL.
func X(url, text string) string {
	return "https://x.com/intent/tweet?text=" + Escape(text) + "&url=" + Escape(url)
}

// Facebook returns a Facebook sharer URL. Facebook ignores any caller text.
func Facebook(url string) string {
	return "https://www.facebook.com/sharer/sharer.php?u=" + Escape(url)
}

// LinkedIn returns a LinkedIn share-offsite URL.
func LinkedIn(url string) string {
	return "https://www.linkedin.com/sharing/share-offsite/?url=" + Escape(url)
}

// Reddit returns a Reddit submit URL with the text used as the post title.
func Reddit(url, text string) string {
	return "https://www.reddit.com/submit?url=" + Escape(url) + "&title=" + Escape(text)
}

// Snapchat returns a Snapchat scan URL with the share URL as attachment.
func Snapchat(url string) string {
	return "https://www.snapchat.com/scan?attachmentUrl=" + Escape(url)
}

// SMS returns an sms: scheme URI carrying "text\nurl" in the message body.
// Opening it navigates the current document rather than a new tab.
func SMS(url, text string) string {
	return "sms:?body=" + Escape(text+"\n"+url)
}

// Email returns a mailto: scheme URI with subject and a "text\n\nurl" body.
func Email(url, text, subject string) string {
	return "mailto:?subject=" + Escape(subject) + "&body=" + Escape(text+"\n\n"+url)
}

// Instagram returns the Instagram app-scheme URI. Instagram offers no generic
// web share intent, so the only possible action is an app switch.
func Instagram() string {
	return "instagram://"
}

// TikTok returns the TikTok app-scheme URI.
func TikTok() string {
	return "tiktok://"
}

// Threads returns the Threads app-scheme URI.
func Threads() string {
	return "threads://"
}
