package opengraph

// Data represents Open Graph metadata for one shared URL. A Data value is
// immutable once constructed; the cache holds one instance per distinct URL.
type Data struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	URL         string `json:"url"`
}

// unfurlEnvelope is the JSON shape returned by the remote unfurl endpoint.
// Any deviation from it is treated as a failed fetch.
type unfurlEnvelope struct {
	Status string         `json:"status"`
	Data   *unfurlPayload `json:"data"`
}

type unfurlPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       *struct {
		URL string `json:"url"`
	} `json:"image"`
	URL       string `json:"url"`
	Publisher string `json:"publisher"`
}
