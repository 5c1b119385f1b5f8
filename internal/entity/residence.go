package entity

import "fmt"

type ResidenceType string

const (
	ResidenceLegonHall       ResidenceType = "legon-hall"
	ResidenceTraditionalHall ResidenceType = "traditional-halls"
	ResidenceHostel          ResidenceType = "hostels"
)

// OtherOption выбирается, когда общежития нет в списке; название передается
// отдельным полем.
const OtherOption = "other"

// Residence описывает адрес доставки. Каждому типу проживания соответствует
// отдельная реализация, содержащая только свои обязательные поля.
type Residence interface {
	Type() ResidenceType
	Address() string
	fill(o *Order)
}

type LegonHall struct {
	Block string `json:"block" validate:"required"`
	Room  string `json:"room" validate:"required"`
}

func (r LegonHall) Type() ResidenceType {
	return ResidenceLegonHall
}

func (r LegonHall) Address() string {
	return fmt.Sprintf("Block %s, Room %s, Legon Hall", r.Block, r.Room)
}

func (r LegonHall) fill(o *Order) {
	o.ResidenceType = r.Type()
	o.Block = r.Block
	o.Room = r.Room
}

type TraditionalHall struct {
	Hall      string `json:"hall" validate:"required,oneof=commonwealth volta akuafo mensah-sarbah other"`
	OtherHall string `json:"otherHall" validate:"required_if=Hall other"`
}

func (r TraditionalHall) Type() ResidenceType {
	return ResidenceTraditionalHall
}

func (r TraditionalHall) Address() string {
	return r.name()
}

func (r TraditionalHall) fill(o *Order) {
	o.ResidenceType = r.Type()
	o.Hall = r.name()
}

func (r TraditionalHall) name() string {
	if r.Hall == OtherOption {
		return r.OtherHall
	}

	return r.Hall
}

type Hostel struct {
	Hostel      string `json:"hostel" validate:"required,oneof=jean-nelson sey hilla-limann alexander-adum elizabeth-frances TF pentagon bani other"`
	OtherHostel string `json:"otherHostel" validate:"required_if=Hostel other"`
	Block       string `json:"block" validate:"required"`
}

func (r Hostel) Type() ResidenceType {
	return ResidenceHostel
}

func (r Hostel) Address() string {
	return fmt.Sprintf("%s, Block %s", r.name(), r.Block)
}

func (r Hostel) fill(o *Order) {
	o.ResidenceType = r.Type()
	o.Hostel = r.name()
	o.Block = r.Block
}

func (r Hostel) name() string {
	if r.Hostel == OtherOption {
		return r.OtherHostel
	}

	return r.Hostel
}
