package utils

// RegionDescriptiveNames maps AWS region codes to descriptive names
var RegionDescriptiveNames = map[string]string{
	"us-east-1":      "US-East-1 (N. Virginia)",
	"us-east-2":      "US-East-2 (Ohio)",
	"us-west-1":      "US-West-1 (N. California)",
	"us-west-2":      "US-West-2 (Oregon)",
	"af-south-1":     "AF-South-1 (Cape Town)",
	"ap-east-1":      "AP-East-1 (Hong Kong)",
	"ap-south-1":     "AP-South-1 (Mumbai)",
	"ap-northeast-1": "AP-Northeast-1 (Tokyo)",
	"ap-northeast-2": "AP-Northeast-2 (Seoul)",
	"ap-northeast-3": "AP-Northeast-3 (Osaka)",
	"ap-southeast-1": "AP-Southeast-1 (Singapore)",
	"ap-southeast-2": "AP-Southeast-2 (Sydney)",
	"ca-central-1":   "CA-Central-1 (Central)",
	"eu-central-1":   "EU-Central-1 (Frankfurt)",
	"eu-west-1":      "EU-West-1 (Ireland)",
	"eu-west-2":      "EU-West-2 (London)",
	"eu-west-3":      "EU-West-3 (Paris)",
	"eu-north-1":     "EU-North-1 (Stockholm)",
	"eu-south-1":     "EU-South-1 (Milan)",
	"me-south-1":     "ME-South-1 (Bahrain)",
	"sa-east-1":      "SA-East-1 (Sao Paulo)",
}

// GetRegionDescriptiveName returns the human-readable region name used in
// progress messages. Unknown regions are returned as-is.
func GetRegionDescriptiveName(region string) string {
	if name, ok := RegionDescriptiveNames[region]; ok {
		return name
	}
	return region
}

// IsValidRegion checks if a region is valid
func IsValidRegion(region string) bool {
	_, ok := RegionDescriptiveNames[region]
	return ok
}

// GetDefaultRegion returns the region the primary web server lives in
func GetDefaultRegion() string {
	return "us-east-2"
}
