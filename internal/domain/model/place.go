package model

import (
	"fmt"
	"strings"
)

// Level 地名エンティティの階層種別
type Level int

const (
	LevelCountry Level = iota + 1
	LevelRegion
	LevelSubregion
	LevelCity
	LevelDistrict
	LevelPostalCode
)

// MaxHierarchyDepth Country/Region/Subregion/City/District の5段が上限
const MaxHierarchyDepth = 5

var levelNames = map[Level]string{
	LevelCountry:    "country",
	LevelRegion:     "region",
	LevelSubregion:  "subregion",
	LevelCity:       "city",
	LevelDistrict:   "district",
	LevelPostalCode: "postal_code",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel 文字列から Level を取得する（"postalcode" も受け付ける）
func ParseLevel(s string) (Level, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "postalcode" {
		key = "postal_code"
	}
	for level, name := range levelNames {
		if name == key {
			return level, nil
		}
	}
	return 0, fmt.Errorf("未知の階層種別です: %q", s)
}

// Place 全地名エンティティ共通のインターフェース
// Parent はロード済みの参照のみを返し、DBアクセスは行わない
type Place interface {
	fmt.Stringer
	DisplayName() string
	PathSlug() string
	AlternativeNames() []AlternativeName
	Parent() Place
	Level() Level
}

// PlaceFields 各エンティティに埋め込む共通カラム
type PlaceFields struct {
	Name string `json:"name" gorm:"size:200;index;not null"`
	Slug string `json:"slug" gorm:"size:200;not null"`
}

func (f PlaceFields) DisplayName() string { return f.Name }

func (f PlaceFields) PathSlug() string { return f.Slug }

func (f *PlaceFields) normalize() {
	f.Name = NormalizeText(f.Name)
	f.Slug = NormalizeText(f.Slug)
}

// Hierarchy ルートから自身までの地名リストを返す
// 呼び出し毎に新しいスライスを生成する
func Hierarchy(p Place) []Place {
	var chain []Place
	for cur := p; cur != nil; cur = cur.Parent() {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// AbsoluteURL 階層の slug を "/" で連結する（エスケープは行わない）
func AbsoluteURL(p Place) string {
	hierarchy := Hierarchy(p)
	slugs := make([]string, 0, len(hierarchy))
	for _, place := range hierarchy {
		slugs = append(slugs, place.PathSlug())
	}
	return strings.Join(slugs, "/")
}

// coded コードを持つエンティティ
type coded interface {
	code() string
}

// fullCode 階層中のコードを持つエンティティのコードを "." で連結する
func fullCode(p Place) string {
	var codes []string
	for _, place := range Hierarchy(p) {
		if c, ok := place.(coded); ok {
			codes = append(codes, c.code())
		}
	}
	return strings.Join(codes, ".")
}
