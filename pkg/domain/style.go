package domain

import "strings"

// Style はコーディネートの系統です。
type Style string

const (
	StyleCasual         Style = "Casual"
	StyleFormal         Style = "Formal"
	StyleBusinessCasual Style = "Business Casual"
	StyleStreetwear     Style = "Streetwear"
	StyleMinimalist     Style = "Minimalist"
	StyleBohemian       Style = "Bohemian"
)

// Occasion は着用シーンです。
type Occasion string

const (
	OccasionDailyWear Occasion = "Daily Wear"
	OccasionOffice    Occasion = "Office"
	OccasionParty     Occasion = "Party"
	OccasionWedding   Occasion = "Wedding"
	OccasionDateNight Occasion = "Date Night"
	OccasionWorkout   Occasion = "Workout"
)

// Budget は予算帯です。
type Budget string

const (
	BudgetFriendly Budget = "Budget-Friendly"
	BudgetMedium   Budget = "Medium"
	BudgetPremium  Budget = "Premium"
	BudgetLuxury   Budget = "Luxury"
)

// DefaultColors は色指定がない場合の値です。
const DefaultColors = "Any"

var (
	Styles    = []Style{StyleCasual, StyleFormal, StyleBusinessCasual, StyleStreetwear, StyleMinimalist, StyleBohemian}
	Occasions = []Occasion{OccasionDailyWear, OccasionOffice, OccasionParty, OccasionWedding, OccasionDateNight, OccasionWorkout}
	Budgets   = []Budget{BudgetFriendly, BudgetMedium, BudgetPremium, BudgetLuxury}
)

// Valid は既知の選択肢かどうかを返します。
func (s Style) Valid() bool { return contains(Styles, s) }

// Valid は既知の選択肢かどうかを返します。
func (o Occasion) Valid() bool { return contains(Occasions, o) }

// Valid は既知の選択肢かどうかを返します。
func (b Budget) Valid() bool { return contains(Budgets, b) }

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// StyleProfile はユーザーが入力した好みの組み合わせです。
// 未知の値もそのままプロンプトに埋め込まれます。
type StyleProfile struct {
	Style    Style
	Occasion Occasion
	Colors   string
	Budget   Budget
}

// WithDefaults は空のフィールドをフォームの初期値で埋めたコピーを返します。
func (p StyleProfile) WithDefaults() StyleProfile {
	if strings.TrimSpace(string(p.Style)) == "" {
		p.Style = StyleCasual
	}
	if strings.TrimSpace(string(p.Occasion)) == "" {
		p.Occasion = OccasionDailyWear
	}
	if strings.TrimSpace(p.Colors) == "" {
		p.Colors = DefaultColors
	}
	if strings.TrimSpace(string(p.Budget)) == "" {
		p.Budget = BudgetMedium
	}
	return p
}

// AdviceRequest はテキストアドバイスの要求です。
type AdviceRequest struct {
	Query      string
	Profile    StyleProfile
	Credential string
}

// OutfitRequest はコーディネート画像生成の要求です。
// ReferenceImage と ReferenceURL のどちらかが必要です。
type OutfitRequest struct {
	ReferenceImage *ImageData
	ReferenceURL   string
	Profile        StyleProfile
	Credential     string
	Seed           *int64
}

// HasReference は参照画像が指定されているかを返します。
func (r OutfitRequest) HasReference() bool {
	return !r.ReferenceImage.IsEmpty() || strings.TrimSpace(r.ReferenceURL) != ""
}

// Validate は外部呼び出しの前に必要な入力が揃っているかを確認します。
func (r AdviceRequest) Validate() error {
	if strings.TrimSpace(r.Credential) == "" {
		return ErrMissingCredential
	}
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// Validate は外部呼び出しの前に必要な入力が揃っているかを確認します。
func (r OutfitRequest) Validate() error {
	if strings.TrimSpace(r.Credential) == "" {
		return ErrMissingCredential
	}
	if !r.HasReference() {
		return ErrMissingReference
	}
	return nil
}
