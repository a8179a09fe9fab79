package rentalunit

// Kind classifies a rental unit.
type Kind string

const (
	KindRoom       Kind = "room"
	KindApartment  Kind = "apartment"
	KindBuilding   Kind = "building"
	KindParking    Kind = "parking"
	KindStorage    Kind = "storage"
	KindContainer  Kind = "container"
	KindCommercial Kind = "commercial"
	KindOther      Kind = "other"
)

var validKinds = map[Kind]bool{
	KindRoom:       true,
	KindApartment:  true,
	KindBuilding:   true,
	KindParking:    true,
	KindStorage:    true,
	KindContainer:  true,
	KindCommercial: true,
	KindOther:      true,
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	return validKinds[k]
}
