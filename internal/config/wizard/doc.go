// Package wizard provides the interactive `baseline init` questionnaire.
//
// RunWizard collects host settings, a role and its steps with
// charmbracelet/huh forms and returns a Result. BuildManifest converts the
// result into a config.Manifest ready for config.Writer.
package wizard
