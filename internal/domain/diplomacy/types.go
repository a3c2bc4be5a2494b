package diplomacy

// CivID identifies a civilization in the surrounding game.
type CivID int

type ColonyID int

type FleetID int

// NoCiv marks an absent civilization reference.
const NoCiv CivID = -1

type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}
