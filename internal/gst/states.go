package gst

// StateNames maps the two-letter Indian state/UT codes used on GST
// invoices to their display names.
var StateNames = map[string]string{
	"AN": "Andaman and Nicobar Islands",
	"AP": "Andhra Pradesh",
	"AR": "Arunachal Pradesh",
	"AS": "Assam",
	"BR": "Bihar",
	"CG": "Chhattisgarh",
	"CH": "Chandigarh",
	"DN": "Dadra and Nagar Haveli and Daman and Diu",
	"DL": "Delhi",
	"GA": "Goa",
	"GJ": "Gujarat",
	"HR": "Haryana",
	"HP": "Himachal Pradesh",
	"JK": "Jammu and Kashmir",
	"JH": "Jharkhand",
	"KA": "Karnataka",
	"KL": "Kerala",
	"LA": "Ladakh",
	"LD": "Lakshadweep",
	"MP": "Madhya Pradesh",
	"MH": "Maharashtra",
	"MN": "Manipur",
	"ML": "Meghalaya",
	"MZ": "Mizoram",
	"NL": "Nagaland",
	"OR": "Odisha",
	"PY": "Puducherry",
	"PB": "Punjab",
	"RJ": "Rajasthan",
	"SK": "Sikkim",
	"TN": "Tamil Nadu",
	"TS": "Telangana",
	"TR": "Tripura",
	"UP": "Uttar Pradesh",
	"UK": "Uttarakhand",
	"WB": "West Bengal",
}

// ValidState reports whether code is a known state/UT code.
func ValidState(code string) bool {
	_, ok := StateNames[code]
	return ok
}

// StateName returns the display name for a state code, or the code
// itself when unknown.
func StateName(code string) string {
	if name, ok := StateNames[code]; ok {
		return name
	}
	return code
}
