package discord

// Embed is rich content attached to a message.
type Embed struct {
	Title       Optional[string]           `json:"title,omitempty"`
	Type        Optional[string]           `json:"type,omitempty"`
	Description Optional[string]           `json:"description,omitempty"`
	URL         Optional[string]           `json:"url,omitempty"`
	Timestamp   Optional[Timestamp]        `json:"timestamp,omitempty"`
	Color       Optional[int32]            `json:"color,omitempty"`
	Footer      Optional[EmbedFooter]      `json:"footer,omitempty"`
	Image       Optional[EmbedMedia]       `json:"image,omitempty"`
	Thumbnail   Optional[EmbedMedia]       `json:"thumbnail,omitempty"`
	Video       Optional[EmbedMedia]       `json:"video,omitempty"`
	Author      Optional[EmbedAuthor]      `json:"author,omitempty"`
	Fields      Optional[List[EmbedField]] `json:"fields,omitempty"`
}

type EmbedFooter struct {
	Text    string           `json:"text"`
	IconURL Optional[string] `json:"icon_url,omitempty"`
}

type EmbedMedia struct {
	URL    string          `json:"url"`
	Height Optional[int32] `json:"height,omitempty"`
	Width  Optional[int32] `json:"width,omitempty"`
}

type EmbedAuthor struct {
	Name    string           `json:"name"`
	URL     Optional[string] `json:"url,omitempty"`
	IconURL Optional[string] `json:"icon_url,omitempty"`
}

type EmbedField struct {
	Name   string         `json:"name"`
	Value  string         `json:"value"`
	Inline Optional[bool] `json:"inline,omitempty"`
}
