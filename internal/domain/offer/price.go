package offer

import (
	"errors"
	"fmt"

	"offer-compare/internal/pkg/ptr"
)

// DefaultPromotionMonths is the window a voucher is spread over when the provider does not say.
const DefaultPromotionMonths = 24

var ErrInvalidPrice = errors.New("invalid price")

// PriceDetails holds money in integer cents. Absent optional fields are nil, never zero.
type PriceDetails struct {
	MonthlyCostCents           int64  `json:"monthlyCostCents"`
	DiscountedMonthlyCents     *int64 `json:"discountedMonthlyCents,omitempty"`
	MonthlySavingsCents        *int64 `json:"monthlySavingsCents,omitempty"`
	AfterPromotionMonthlyCents *int64 `json:"afterPromotionMonthlyCents,omitempty"`
	TotalSavingsCents          *int64 `json:"totalSavingsCents,omitempty"`
	SetupFeeCents              *int64 `json:"setupFeeCents,omitempty"`
	DiscountPercent            *int   `json:"discountPercent,omitempty"`
}

func (p PriceDetails) EffectiveMonthlyCents() int64 {
	if p.DiscountedMonthlyCents != nil {
		return *p.DiscountedMonthlyCents
	}
	return p.MonthlyCostCents
}

func (p PriceDetails) Validate() error {
	if p.MonthlyCostCents < 0 {
		return fmt.Errorf("%w: monthly cost must not be negative", ErrInvalidPrice)
	}
	if d := p.DiscountedMonthlyCents; d != nil {
		if *d < 0 || *d > p.MonthlyCostCents {
			return fmt.Errorf("%w: discounted cost must be between 0 and the monthly cost", ErrInvalidPrice)
		}
	}
	for _, v := range []*int64{p.MonthlySavingsCents, p.AfterPromotionMonthlyCents, p.TotalSavingsCents, p.SetupFeeCents} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: money fields must not be negative", ErrInvalidPrice)
		}
	}
	if p.DiscountPercent != nil && (*p.DiscountPercent < 0 || *p.DiscountPercent > 100) {
		return fmt.Errorf("%w: discount percent must be within 0..100", ErrInvalidPrice)
	}
	return nil
}

func (p PriceDetails) Clone() PriceDetails {
	return PriceDetails{
		MonthlyCostCents:           p.MonthlyCostCents,
		DiscountedMonthlyCents:     ptr.Clone(p.DiscountedMonthlyCents),
		MonthlySavingsCents:        ptr.Clone(p.MonthlySavingsCents),
		AfterPromotionMonthlyCents: ptr.Clone(p.AfterPromotionMonthlyCents),
		TotalSavingsCents:          ptr.Clone(p.TotalSavingsCents),
		SetupFeeCents:              ptr.Clone(p.SetupFeeCents),
		DiscountPercent:            ptr.Clone(p.DiscountPercent),
	}
}

// Voucher is either a percentage off the monthly cost (optionally capped over the
// whole promotion) or an absolute amount spread across the promotion months.
type Voucher struct {
	Percent          int
	MaxDiscountCents *int64
	AbsoluteCents    int64
}

func PercentageVoucher(percent int, maxDiscountCents *int64) Voucher {
	return Voucher{Percent: percent, MaxDiscountCents: maxDiscountCents}
}

func AbsoluteVoucher(cents int64) Voucher {
	return Voucher{AbsoluteCents: cents}
}

func (v Voucher) IsZero() bool {
	return v.Percent <= 0 && v.AbsoluteCents <= 0
}

// ApplyVoucher returns a copy of p with the discount fields derived from v.
// A zero voucher returns p unchanged. promotionMonths <= 0 uses DefaultPromotionMonths.
func (p PriceDetails) ApplyVoucher(v Voucher, promotionMonths int) PriceDetails {
	out := p.Clone()
	if v.IsZero() {
		return out
	}
	months := int64(promotionMonths)
	if months <= 0 {
		months = DefaultPromotionMonths
	}

	var monthly, total int64
	if v.Percent > 0 {
		total = p.MonthlyCostCents * int64(v.Percent) / 100 * months
		if v.MaxDiscountCents != nil && *v.MaxDiscountCents < total {
			total = *v.MaxDiscountCents
		}
		monthly = total / months
	} else {
		total = v.AbsoluteCents
		monthly = total / months
	}
	if monthly > p.MonthlyCostCents {
		monthly = p.MonthlyCostCents
	}

	percent := 0
	if p.MonthlyCostCents > 0 {
		percent = int(monthly * 100 / p.MonthlyCostCents)
	}

	out.DiscountedMonthlyCents = ptr.To(p.MonthlyCostCents - monthly)
	out.MonthlySavingsCents = ptr.To(monthly)
	out.TotalSavingsCents = ptr.To(total)
	out.DiscountPercent = ptr.To(percent)
	return out
}
