package dbtour

// Command is a parsed sub-command. App dispatches on its concrete type.
type Command interface {
	// Name returns the sub-command as typed on the command line.
	Name() string
}

// ListCommand prints the available tours.
type ListCommand struct{}

func (c *ListCommand) Name() string { return "list" }

// RunCommand runs tours sequentially. An empty Tours runs all of them.
type RunCommand struct {
	Tours []string
	// KeepGoing runs the remaining tours after a failure and reports all
	// failures together.
	KeepGoing bool
}

func (c *RunCommand) Name() string { return "run" }

// PingCommand checks that the servers of the given tours answer.
type PingCommand struct {
	Tours []string
}

func (c *PingCommand) Name() string { return "ping" }
