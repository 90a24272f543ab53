package model

// ButtonStyle controls the submit button corners.
type ButtonStyle string

const (
	ButtonRounded ButtonStyle = "rounded"
	ButtonSquare  ButtonStyle = "square"
	ButtonPill    ButtonStyle = "pill"
)

// FormWidth controls the maximum width of the form card.
type FormWidth string

const (
	WidthNarrow FormWidth = "narrow"
	WidthMedium FormWidth = "medium"
	WidthWide   FormWidth = "wide"
)

// Theme is the passive style record threaded into every widget.
type Theme struct {
	PrimaryColor    string      `json:"primaryColor" yaml:"primaryColor"`
	SecondaryColor  string      `json:"secondaryColor" yaml:"secondaryColor"`
	BackgroundColor string      `json:"backgroundColor" yaml:"backgroundColor"`
	TextColor       string      `json:"textColor" yaml:"textColor"`
	FontFamily      string      `json:"fontFamily" yaml:"fontFamily"`
	ButtonStyle     ButtonStyle `json:"buttonStyle" yaml:"buttonStyle"`
	FormWidth       FormWidth   `json:"formWidth" yaml:"formWidth"`
}

// DefaultTheme is applied to every form loaded from the booking API.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:    "#2563eb",
		SecondaryColor:  "#1e40af",
		BackgroundColor: "#ffffff",
		TextColor:       "#1f2937",
		FontFamily:      "Inter, sans-serif",
		ButtonStyle:     ButtonRounded,
		FormWidth:       WidthMedium,
	}
}
