package domain

// DialogLine is one scripted message: who says it and what.
type DialogLine struct {
	Avatar  string `yaml:"avatar"`
	Message string `yaml:"message"`           // may contain one host placeholder
	Sender  string `yaml:"sender,omitempty"`  // replaces the avatar's display name
	Channel string `yaml:"channel,omitempty"` // posts this line to another channel
}

// Dialog is an ordered multi-message exchange.
type Dialog []DialogLine
