package entities

// CommandOutput holds the raw text a device returned for one command
type CommandOutput struct {
	Command string
	Output  string
}

// OutputFor returns the output of cmd, or an empty string when it was not run
func OutputFor(outputs []CommandOutput, cmd string) string {
	for _, o := range outputs {
		if o.Command == cmd {
			return o.Output
		}
	}
	return ""
}
