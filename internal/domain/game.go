package domain

// Role is a playable role in the catalog. Alignment is "town" or "mafia".
type Role struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Alignment string `json:"alignment"`
}

// Roles returns the static role catalog. There is no game engine yet;
// the catalog exists so clients can render the lobby.
func Roles() []Role {
	return []Role{
		{ID: "villager", Name: "Villager", Alignment: "town"},
		{ID: "mafia", Name: "Mafia", Alignment: "mafia"},
		{ID: "doctor", Name: "Doctor", Alignment: "town"},
		{ID: "detective", Name: "Detective", Alignment: "town"},
	}
}
