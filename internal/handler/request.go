package handler

import (
	"context"
	"encoding/json"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	"io"
	"net/http"
	"strings"
)

// OrderRequest данные формы заказа. Поля адреса, не относящиеся к выбранному
// типу проживания, игнорируются.
type OrderRequest struct {
	Name             string       `json:"name" validate:"required"`
	PhoneNumber      string       `json:"phoneNumber" validate:"required,ghphone"`
	ResidenceType    string       `json:"residenceType" validate:"required,oneof=legon-hall traditional-halls hostels"`
	Block            string       `json:"block"`
	Room             string       `json:"room"`
	Hall             string       `json:"hall"`
	OtherHall        string       `json:"otherHall"`
	Hostel           string       `json:"hostel"`
	OtherHostel      string       `json:"otherHostel"`
	OrderDescription string       `json:"orderDescription" validate:"required"`
	OrderAmount      entity.Money `json:"orderAmount" validate:"required,gt=0"`
}

type StatusRequest struct {
	Status entity.OrderStatus `json:"status" validate:"required"`
}

type InitializeRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Email   string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Validator interface {
	Struct(ctx context.Context, s any) error
	Var(ctx context.Context, field any, tag string) error
}

type AdminProvider interface {
	Admin(r *http.Request) (entity.Admin, error)
}

func (req *OrderRequest) normalize() {
	for _, s := range []*string{
		&req.Name,
		&req.PhoneNumber,
		&req.ResidenceType,
		&req.Block,
		&req.Room,
		&req.Hall,
		&req.OtherHall,
		&req.Hostel,
		&req.OtherHostel,
		&req.OrderDescription,
	} {
		*s = strings.TrimSpace(*s)
	}
	req.OrderAmount = req.OrderAmount.Round()
}

// Residence возвращает адрес доставки для выбранного типа проживания.
// Для неизвестного типа возвращает false.
func (req *OrderRequest) Residence() (entity.Residence, bool) {
	switch entity.ResidenceType(req.ResidenceType) {
	case entity.ResidenceLegonHall:
		return entity.LegonHall{Block: req.Block, Room: req.Room}, true
	case entity.ResidenceTraditionalHall:
		return entity.TraditionalHall{Hall: req.Hall, OtherHall: req.OtherHall}, true
	case entity.ResidenceHostel:
		return entity.Hostel{Hostel: req.Hostel, OtherHostel: req.OtherHostel, Block: req.Block}, true
	}

	return nil, false
}

func (req *OrderRequest) Draft(r entity.Residence) entity.OrderDraft {
	return entity.OrderDraft{
		Name:             req.Name,
		PhoneNumber:      req.PhoneNumber,
		OrderDescription: req.OrderDescription,
		OrderAmount:      req.OrderAmount,
		Residence:        r,
	}
}

// maxBodySize ограничивает размер тела запроса, включая уведомления провайдера.
const maxBodySize = 1 << 20

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
}

func readJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	b, err := readBody(w, r)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}
