package tools

// Name é o conjunto fechado de operações que a camada de diálogo pode chamar.
type Name int

const (
	CheckPatient Name = iota
	ListAvailableSlots
	RegisterAndBook
	BookFollowup
	ListUpcoming
	CancelAppointment

	numNames
)

var names = [numNames]string{
	CheckPatient:       "check_patient",
	ListAvailableSlots: "list_available_slots",
	RegisterAndBook:    "register_and_book",
	BookFollowup:       "book_followup",
	ListUpcoming:       "list_upcoming",
	CancelAppointment:  "cancel_appointment",
}

func (n Name) String() string {
	if !n.Valid() {
		return "unknown"
	}
	return names[n]
}

func (n Name) Valid() bool {
	return n >= 0 && n < numNames
}

func ParseName(s string) (Name, bool) {
	for i, name := range names {
		if name == s {
			return Name(i), true
		}
	}
	return 0, false
}

// All lista as ferramentas na ordem de declaração.
func All() []Name {
	out := make([]Name, 0, numNames)
	for n := Name(0); n < numNames; n++ {
		out = append(out, n)
	}
	return out
}
