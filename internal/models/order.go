package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus is the position of an order in the lab workflow.
type OrderStatus string

const (
	StatusToOrder     OrderStatus = "TO_ORDER"
	StatusLensOrdered OrderStatus = "LENS_ORDERED"
	StatusReady       OrderStatus = "READY"
	StatusDelivered   OrderStatus = "DELIVERED"
)

// AllStatuses lists the workflow in its natural order.
var AllStatuses = []OrderStatus{StatusToOrder, StatusLensOrdered, StatusReady, StatusDelivered}

// Valid reports whether s is one of the four workflow states.
func (s OrderStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// LensType is the kind of lens sold.
type LensType string

const (
	LensSingleVision LensType = "SINGLE_VISION"
	LensMultifocal   LensType = "MULTIFOCAL"
	LensOffice       LensType = "OFFICE"
)

var AllLensTypes = []LensType{LensSingleVision, LensMultifocal, LensOffice}

func (l LensType) Valid() bool {
	for _, v := range AllLensTypes {
		if l == v {
			return true
		}
	}
	return false
}

// OrderRank tells a customer's first lens order from a repeat one.
type OrderRank string

const (
	RankFirst  OrderRank = "FIRST"
	RankSecond OrderRank = "SECOND"
)

var AllOrderRanks = []OrderRank{RankFirst, RankSecond}

func (r OrderRank) Valid() bool { return r == RankFirst || r == RankSecond }

// Treatment is an optional lens coating or extra.
type Treatment string

const (
	TreatmentTransition Treatment = "TRANSITION"
	TreatmentBlueLight  Treatment = "BLUE_LIGHT"
	TreatmentSunRx      Treatment = "SUN_RX"
	TreatmentSOS        Treatment = "SOS"
)

var AllTreatments = []Treatment{TreatmentTransition, TreatmentBlueLight, TreatmentSunRx, TreatmentSOS}

func (t Treatment) Valid() bool {
	for _, v := range AllTreatments {
		if t == v {
			return true
		}
	}
	return false
}

// Order is one lens-order transaction, keyed by owner and id.
type Order struct {
	OwnerID   string    `gorm:"primaryKey;size:64;uniqueIndex:idx_orders_owner_number,priority:1" json:"-"`
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Date is stamped at creation and never edited.
	Date            Date      `gorm:"not null;index" json:"date"`
	CustomerSurname string    `gorm:"size:255;not null" json:"customerSurname"`
	Seller          string    `gorm:"size:255" json:"seller"`
	LensType        LensType  `gorm:"size:20;not null" json:"lensType"`
	OrderRank       OrderRank `gorm:"size:10;not null" json:"orderRank"`

	// BinReference is the 3-digit tray code; several historical orders may share it.
	BinReference string `gorm:"size:3;not null;index" json:"binReference"`
	// OrderNumber is the 5-digit number, unique per owner.
	OrderNumber string          `gorm:"size:5;not null;uniqueIndex:idx_orders_owner_number,priority:2" json:"orderNumber"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`

	Treatments datatypes.JSONSlice[Treatment] `json:"treatments"`
	Status     OrderStatus                    `gorm:"size:20;not null;index" json:"status"`
}

// HasTreatment reports whether t is in the order's treatment set.
func (o *Order) HasTreatment(t Treatment) bool {
	for _, v := range o.Treatments {
		if v == t {
			return true
		}
	}
	return false
}

// IsDelivered returns true once the glasses left the shop.
func (o *Order) IsDelivered() bool {
	return o.Status == StatusDelivered
}
