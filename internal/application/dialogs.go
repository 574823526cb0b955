package application

// Dialog keys understood by the locale files.
const (
	DialogSetupMissing  = "homeassistant.error.setup"
	DialogOffline       = "homeassistant.error.offline"
	DialogInvalidURL    = "homeassistant.error.invalidurl"
	DialogSSL           = "homeassistant.error.ssl"
	DialogWrongPassword = "homeassistant.error.wrong_password"
	DialogHTTPError     = "homeassistant.error.http"
	DialogError         = "homeassistant.error"
	DialogSorry         = "homeassistant.error.sorry"

	DialogDeviceUnknown = "homeassistant.device.unknown"
	DialogDeviceOn      = "homeassistant.device.on"
	DialogDeviceOff     = "homeassistant.device.off"
	DialogDeviceAlready = "homeassistant.device.already"
	DialogNoEntity      = "no.entity.by.name"

	DialogBrightnessBadRequest = "homeassistant.brightness.badreq"
	DialogBrightnessDimmed     = "homeassistant.brightness.dimmed"
	DialogBrightnessDecreased  = "homeassistant.brightness.decreased"
	DialogBrightnessIncreased  = "homeassistant.brightness.increased"
	DialogCantDimOff           = "homeassistant.brightness.cantdim.off"
	DialogCantDimDimmable      = "homeassistant.brightness.cantdim.dimmable"

	DialogTurnOn            = "turn_on"
	DialogTurnOff           = "turn_off"
	DialogAutomationTrigger = "homeassistant.automation.trigger"
	DialogSensor            = "homeassistant.sensor"
	DialogTrackerFound      = "homeassistant.tracker.found"
	DialogQueryAttribute    = "query_attribute"

	DialogNoThermostat   = "no.thermostat"
	DialogClimateMode    = "climate.set_operation_mode_"
	DialogClimateSetTemp = "climate.set_temperature"
)

// Canonical verbs a Lexicon resolves to.
const (
	VerbOn       = "on"
	VerbOff      = "off"
	VerbToggle   = "toggle"
	VerbIncrease = "increase"
	VerbDecrease = "decrease"
)
