package model

import (
	"fmt"

	"gorm.io/gorm"
)

// AlternativeName 地名の別名（言語コード付き）
type AlternativeName struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:256;not null"`
	Language     string `json:"language" gorm:"size:100;not null"`
	IsPreferred  bool   `json:"is_preferred" gorm:"not null;default:false"`
	IsShort      bool   `json:"is_short" gorm:"not null;default:false"`
	IsColloquial bool   `json:"is_colloquial" gorm:"not null;default:false"`
}

func (AlternativeName) TableName() string {
	return "alternative_names"
}

// String "name (language)" 形式
func (a AlternativeName) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Language)
}

func (a *AlternativeName) Normalize() {
	a.Name = NormalizeText(a.Name)
	a.Language = NormalizeText(a.Language)
}

func (a *AlternativeName) BeforeSave(tx *gorm.DB) error {
	a.Normalize()
	return nil
}

func (a *AlternativeName) AfterFind(tx *gorm.DB) error {
	a.Normalize()
	return nil
}

// PreferredName 指定言語の優先名を返す。なければ最初の一致、それもなければ空文字
func PreferredName(p Place, language string) string {
	var fallback string
	for _, alt := range p.AlternativeNames() {
		if alt.Language != language {
			continue
		}
		if alt.IsPreferred {
			return alt.Name
		}
		if fallback == "" {
			fallback = alt.Name
		}
	}
	return fallback
}
