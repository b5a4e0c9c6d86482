package models

// Scenario is one entry of the tarot catalog: a business worry, the card that answers it,
// a practical solution and an excerpt from the book.
type Scenario struct {
	ID               string           `toml:"id"`
	Category         string           `toml:"category"`
	Question         string           `toml:"question"`
	Tarot            Tarot            `toml:"tarot"`
	RationalSolution RationalSolution `toml:"rational_solution"`
	EmotionalContent EmotionalContent `toml:"emotional_content"`
}

// Tarot describes the card drawn for a scenario.
type Tarot struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
	// ImageURL is used as is when set. Otherwise, the image is generated from ImagePrompt.
	ImageURL    string `toml:"image_url"`
	ImagePrompt string `toml:"image_prompt"`
}

type RationalSolution struct {
	Title      string `toml:"title"`
	Advice     string `toml:"advice"`
	ActionItem string `toml:"action_item"`
}

// EmotionalContent is the long-form text revealed progressively. Lines are separated by '\n'.
type EmotionalContent struct {
	Title   string `toml:"title"`
	Content string `toml:"content"`
}
