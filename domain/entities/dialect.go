package entities

// Dialect describes how a platform's CLI behaves on an interactive session
type Dialect struct {
	// PromptSuffixes are the characters that terminate a CLI prompt ("#", ">").
	PromptSuffixes []string
	// PrivilegedSuffix marks a prompt that needs no enable elevation. Empty
	// means the platform has no enable step.
	PrivilegedSuffix string
	// PagerMarkers are answered with a space whenever they show up.
	PagerMarkers []string
	// SetupCommands run once after login, typically to disable paging.
	SetupCommands []string
	// PreLoginKeys are prompts shown before the CLI (banners) that need a key press.
	PreLoginKeys []string
}

// AuthPrompt is one step of a telnet login: wait for WaitFor (matched
// case-insensitively anywhere in the output), then send SendCmd.
type AuthPrompt struct {
	WaitFor string
	SendCmd string
}
