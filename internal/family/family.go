// Package family holds the per-product-family import configuration: which
// custom-field columns are recognized, which are numeric, and how the price
// column is denominated. This is everything that used to differ between the
// per-family import scripts.
package family

import (
	"sort"

	"go-catalog-import/internal/service"
)

var commonFields = []string{
	"brand", "category", "commercialStatus", "communication",
	"productType", "statusCode", "voltage",
	"height", "width", "depth", "weight",
	"stockStatus",
}

func withCommon(extra ...string) []string {
	fields := make([]string, 0, len(commonFields)+len(extra))
	fields = append(fields, commonFields...)
	fields = append(fields, extra...)
	return fields
}

var registry = map[string]service.FamilyConfig{
	// Modicon M100 PLCs. The only family whose vendor CSV already carries the
	// price in minor currency units.
	"tm100": {
		Code:         "tm100",
		Name:         "Modicon M100 PLC",
		PriceMode:    service.PriceMinorUnits,
		CustomFields: withCommon("analogInputs", "digitalInputs", "digitalOutputs", "programmingLanguage"),
		AssetTags:    []string{"tm100", "auto-imported", "schneider-plc"},
	},
	"tm200": {
		Code:         "tm200",
		Name:         "Modicon M200 PLC",
		PriceMode:    service.PriceMajorUnits,
		CustomFields: withCommon("analogInputs", "digitalInputs", "digitalOutputs", "programmingLanguage"),
		AssetTags:    []string{"tm200", "auto-imported", "schneider-plc"},
	},
	"tm221": {
		Code:         "tm221",
		Name:         "Modicon M221 PLC",
		PriceMode:    service.PriceMajorUnits,
		CustomFields: withCommon("analogInputs", "digitalInputs", "digitalOutputs", "programmingLanguage"),
		AssetTags:    []string{"tm221", "auto-imported", "schneider-plc"},
	},
	"tm241": {
		Code:      "tm241",
		Name:      "Modicon M241 PLC",
		PriceMode: service.PriceMajorUnits,
		CustomFields: withCommon(
			"analogInputs", "analogOutputs", "digitalInputs", "digitalOutputs",
			"relayOutputs", "programmingLanguage", "series", "memorySize",
			"processingTime", "performanceLevel", "mountingType",
			"usbPorts", "rs485Ports", "rs232Ports", "ethernetPorts",
		),
		NumericFields: []string{"usbPorts", "rs485Ports", "rs232Ports", "ethernetPorts"},
		AssetTags:     []string{"tm241", "auto-imported", "schneider-plc"},
	},
	"swasp": {
		Code:         "swasp",
		Name:         "SpaceLogic Automation Server",
		PriceMode:    service.PriceMajorUnits,
		CustomFields: withCommon("ethernetPorts", "serialPorts"),
		AssetTags:    []string{"swasp", "auto-imported", "schneider-automation-server"},
	},
	"sxwasb": {
		Code:          "sxwasb",
		Name:          "SpaceLogic AS-B Automation Server",
		PriceMode:     service.PriceMajorUnits,
		CustomFields:  withCommon("ethernetPorts", "ioPoints", "serialPorts", "smartControl"),
		NumericFields: []string{"ethernetPorts", "ioPoints", "serialPorts"},
		AssetTags:     []string{"sxwasb", "auto-imported", "schneider-automation-server"},
	},
	"breaker": {
		Code:         "breaker",
		Name:         "Circuit Breaker",
		PriceMode:    service.PriceMajorUnits,
		CustomFields: withCommon("current", "poles", "curve", "breakingCapacity"),
		AssetTags:    []string{"breaker", "auto-imported", "schneider-breaker"},
	},
	"contactor": {
		Code:         "contactor",
		Name:         "Contactor",
		PriceMode:    service.PriceMajorUnits,
		CustomFields: withCommon("coilVoltage", "contactConfiguration", "ratedCurrent"),
		AssetTags:    []string{"contactor", "auto-imported", "schneider-contactor"},
	},
}

func Lookup(code string) (service.FamilyConfig, bool) {
	cfg, ok := registry[code]
	return cfg, ok
}

func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
