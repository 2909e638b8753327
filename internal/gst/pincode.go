package gst

// First-digit postal region heuristic. Deliberately coarse: the
// leading digit of an Indian pincode identifies a postal region, not
// a state, so this is a best guess for bulk uploads that carry no
// explicit buyer state.
var pincodeStates = map[byte]string{
	'1': "DL",
	'2': "HR",
	'3': "PB",
	'4': "RJ",
	'5': "UP",
	'6': "TN",
	'7': "AP",
	'8': "KA",
	'9': "GJ",
}

const fallbackState = "KA"

// StateFromPincode infers a buyer state code from the first digit of
// a pincode, falling back to Karnataka for unmapped digits.
func StateFromPincode(pincode string) string {
	if pincode == "" {
		return fallbackState
	}
	if state, ok := pincodeStates[pincode[0]]; ok {
		return state
	}
	return fallbackState
}
