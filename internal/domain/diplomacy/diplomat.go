package diplomacy

import "sort"

// Diplomat is the per-civilization entry point to its foreign power records.
type Diplomat struct {
	OwnerID       CivID
	foreignPowers map[CivID]*ForeignPower
}

func NewDiplomat(owner CivID) *Diplomat {
	return &Diplomat{OwnerID: owner, foreignPowers: map[CivID]*ForeignPower{}}
}

// GetForeignPower returns the record for other, creating it on first use.
// A civilization has no foreign power record for itself.
func (d *Diplomat) GetForeignPower(other CivID) *ForeignPower {
	if other == d.OwnerID {
		return nil
	}
	fp, ok := d.foreignPowers[other]
	if !ok {
		fp = NewForeignPower(d.OwnerID, other)
		d.foreignPowers[other] = fp
	}
	return fp
}

func (d *Diplomat) EnsureForeignPowers(civs []CivID) {
	for _, c := range civs {
		d.GetForeignPower(c)
	}
}

// ForeignPowers returns the known records ordered by counterparty.
func (d *Diplomat) ForeignPowers() []*ForeignPower {
	out := make([]*ForeignPower, 0, len(d.foreignPowers))
	for _, fp := range d.foreignPowers {
		out = append(out, fp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CounterpartyID < out[j].CounterpartyID })
	return out
}

func (d *Diplomat) put(fp *ForeignPower) {
	d.foreignPowers[fp.CounterpartyID] = fp
}
