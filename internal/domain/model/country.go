package model

import (
	"errors"

	"gorm.io/gorm"
)

// Country 国（階層のルート）
type Country struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement:false"`
	PlaceFields
	AltNames []AlternativeName `json:"alt_names,omitempty" gorm:"many2many:country_alt_names"`

	Code         string       `json:"code" gorm:"size:2;index;not null"`
	Code3        string       `json:"code3" gorm:"size:3;not null"`
	Population   int64        `json:"population" gorm:"not null"`
	Area         *int64       `json:"area,omitempty"`
	Currency     *string      `json:"currency,omitempty" gorm:"size:3"`
	CurrencyName *string      `json:"currency_name,omitempty" gorm:"size:50"`
	Languages    *string      `json:"languages,omitempty" gorm:"size:250"`
	Phone        string       `json:"phone" gorm:"size:20;not null"`
	Continent    string       `json:"continent" gorm:"size:2;not null"`
	TLD          string       `json:"tld" gorm:"column:tld;size:5;not null"`
	Capital      string       `json:"capital" gorm:"size:100;not null"`
	Boundary     MultiPolygon `json:"boundary,omitempty"`
}

func (Country) TableName() string {
	return "countries"
}

func (c *Country) String() string { return c.Name }

func (c *Country) Level() Level { return LevelCountry }

func (c *Country) AlternativeNames() []AlternativeName { return c.AltNames }

// Parent 国は常にルート
func (c *Country) Parent() Place { return nil }

func (c *Country) Hierarchy() []Place { return Hierarchy(c) }

func (c *Country) AbsoluteURL() string { return AbsoluteURL(c) }

func (c *Country) code() string { return c.Code }

// Normalize 保存・読み込み時に文字列フィールドを正規化する
func (c *Country) Normalize() {
	c.PlaceFields.normalize()
	c.Code = NormalizeText(c.Code)
	c.Code3 = NormalizeText(c.Code3)
	normalizeOptional(c.Currency)
	normalizeOptional(c.CurrencyName)
	normalizeOptional(c.Languages)
	c.Phone = NormalizeText(c.Phone)
	c.Continent = NormalizeText(c.Continent)
	c.TLD = NormalizeText(c.TLD)
	c.Capital = NormalizeText(c.Capital)
}

func (c *Country) BeforeSave(tx *gorm.DB) error {
	c.Normalize()
	return nil
}

func (c *Country) AfterFind(tx *gorm.DB) error {
	c.Normalize()
	return nil
}

// ErrSelfNeighbour 自国を隣国として登録しようとした
var ErrSelfNeighbour = errors.New("country cannot neighbour itself")

// CountryNeighbour 隣接国の無向ペア（CountryID < NeighbourID）
type CountryNeighbour struct {
	CountryID   int64 `json:"country_id" gorm:"primaryKey;autoIncrement:false"`
	NeighbourID int64 `json:"neighbour_id" gorm:"primaryKey;autoIncrement:false;index;check:chk_country_neighbours_order,neighbour_id > country_id"`
}

func (CountryNeighbour) TableName() string {
	return "country_neighbours"
}

// NewCountryNeighbour 順序を正規化したペアを作成
func NewCountryNeighbour(a, b int64) (CountryNeighbour, error) {
	if a == b {
		return CountryNeighbour{}, ErrSelfNeighbour
	}
	if a > b {
		a, b = b, a
	}
	return CountryNeighbour{CountryID: a, NeighbourID: b}, nil
}

// Other ペアの相手側のIDを返す
func (n CountryNeighbour) Other(id int64) (int64, bool) {
	switch id {
	case n.CountryID:
		return n.NeighbourID, true
	case n.NeighbourID:
		return n.CountryID, true
	}
	return 0, false
}
