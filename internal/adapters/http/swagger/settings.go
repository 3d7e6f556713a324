package swagger

import "fmt"

const settingsTemplate = "$(function () {\n" +
	"window.swaggerSettings = {\n" +
	"validationUrl: '%s'};\n" +
	"});"

// SettingsScript renders the settings.js body for validationURL.
func SettingsScript(validationURL string) string {
	return fmt.Sprintf(settingsTemplate, validationURL)
}
