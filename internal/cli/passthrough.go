package cli

// HandlePassthrough reports whether args should bypass the cobra command
// tree entirely. twig has no bare git-command passthrough: every Git
// operation is reached through an explicit `twig git <verb>` subcommand,
// so this always declines.
func HandlePassthrough(_ []string) bool {
	return false
}
