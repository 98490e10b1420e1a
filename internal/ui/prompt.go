package ui

// RenderPrompt renders the shell prompt. The displayed text is exactly
// "<cwd> $ " per spec's external-interfaces contract — styling is reserved
// for job-table and diagnostic output so a script or test comparing the raw
// prompt string never has to account for ANSI escapes.
func RenderPrompt(cwd string) string {
	return cwd + " $ "
}
