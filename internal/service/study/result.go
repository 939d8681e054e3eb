package study

// Story is a generated practice story.
type Story struct {
	Text     string   `json:"text"`
	Words    []string `json:"words"`
	Language string   `json:"language"`
}
