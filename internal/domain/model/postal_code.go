package model

import (
	"strings"

	"gorm.io/gorm"
)

// PostalCode 郵便番号
// RegionName 等は行政区画が行として存在しない場合があるため単なる文字列で保持する（外部キーではない）
type PostalCode struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement:false"`
	PlaceFields
	AltNames []AlternativeName `json:"alt_names,omitempty" gorm:"many2many:postal_code_alt_names"`

	Code          string       `json:"code" gorm:"size:20;not null"`
	Location      Point        `json:"location" gorm:"not null"`
	CountryID     int64        `json:"country_id" gorm:"not null;index"`
	Country       *Country     `json:"country,omitempty" gorm:"foreignKey:CountryID"`
	RegionName    string       `json:"region_name" gorm:"size:100;index"`
	SubregionName string       `json:"subregion_name" gorm:"size:100;index"`
	DistrictName  string       `json:"district_name" gorm:"size:100;index"`
	Boundary      MultiPolygon `json:"boundary,omitempty"`
}

func (PostalCode) TableName() string {
	return "postal_codes"
}

// String 郵便番号そのもの
func (p *PostalCode) String() string { return p.Code }

func (p *PostalCode) Level() Level { return LevelPostalCode }

func (p *PostalCode) AlternativeNames() []AlternativeName { return p.AltNames }

func (p *PostalCode) Parent() Place {
	if p.Country == nil {
		return nil
	}
	return p.Country
}

func (p *PostalCode) Hierarchy() []Place { return Hierarchy(p) }

func (p *PostalCode) AbsoluteURL() string { return AbsoluteURL(p) }

// Names 空でない名称を国から順に返す
func (p *PostalCode) Names() []string {
	var country string
	if p.Country != nil {
		country = p.Country.String()
	}
	candidates := []string{country, p.RegionName, p.SubregionName, p.DistrictName, p.Name}

	names := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	return names
}

// NameFull 最も詳細な名称から ", " で連結する
func (p *PostalCode) NameFull() string {
	names := p.Names()
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ", ")
}

func (p *PostalCode) Normalize() {
	p.PlaceFields.normalize()
	p.Code = NormalizeText(p.Code)
	p.RegionName = NormalizeText(p.RegionName)
	p.SubregionName = NormalizeText(p.SubregionName)
	p.DistrictName = NormalizeText(p.DistrictName)
}

func (p *PostalCode) BeforeSave(tx *gorm.DB) error {
	p.Normalize()
	return nil
}

func (p *PostalCode) AfterFind(tx *gorm.DB) error {
	p.Normalize()
	return nil
}
