package domain

// PersonalRoomID is the sentinel room for per-user agenda bookings. Conflict
// checks for it are scoped by owner email rather than by room.
const PersonalRoomID = "personal"

const PersonalRoomName = "Personal agenda"

type Room struct {
	ID   string
	Name string
}

// Rooms is the fixed catalog. Display names are denormalized into bookings
// at creation time and never re-synced.
var Rooms = []Room{
	{ID: "auditorium", Name: "Auditorium - Upper floor"},
	{ID: "meeting-lower", Name: "Meeting room - Lower floor"},
	{ID: "meeting-upper", Name: "Meeting room - Upper floor"},
	{ID: "focus-1", Name: "Focus room I - Lower floor"},
	{ID: "focus-2", Name: "Focus room II - Lower floor"},
	{ID: "focus-3", Name: "Focus room III - Lower floor"},
}

func RoomByID(id string) (Room, bool) {
	if id == PersonalRoomID {
		return Room{ID: PersonalRoomID, Name: PersonalRoomName}, true
	}
	for _, r := range Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}
