package soce

import (
	"context"
	"errors"
	"math"

	"soce-backend/lib/amount"
)

const calibrationTolerance = 0.01

// CalibrateAmounts resolves the decimal-separator policy from one
// authoritative sample page: a candidate policy is accepted only when the
// line totals it parses sum to the grand total it parses. The portal has
// shipped both '.'-decimal and ','-decimal renderings, so the policy is
// never guessed; a sample that reconciles under neither, or under both with
// different numbers, is an error and the operator must configure the format
// explicitly.
func CalibrateAmounts(ctx context.Context, snap Snapshot) (AmountFormat, error) {
	ctx, span := tracer.Start(ctx, "CalibrateAmounts")
	defer span.End()

	type candidate struct {
		format AmountFormat
		result Result
	}
	var matched []candidate

	for _, sep := range []amount.Separator{amount.SepDot, amount.SepComma} {
		format := AmountFormat{Quantity: sep, UnitPrice: sep, LineTotal: sep, Total: sep}
		result, err := Extract(ctx, snap, format)
		if err != nil || len(result.Items) == 0 {
			continue
		}

		sum := 0.0
		for _, item := range result.Items {
			sum += item.LineTotal
		}
		if math.Abs(sum-result.Total) < calibrationTolerance {
			matched = append(matched, candidate{format: format, result: result})
		}
	}

	switch len(matched) {
	case 0:
		return AmountFormat{}, errors.New("calibration sample does not reconcile under any separator policy")
	case 1:
		return matched[0].format, nil
	}

	// both policies reconcile; only safe when they agree on every number
	// (i.e. the sample carries no thousands separators at all)
	if sameNumbers(matched[0].result, matched[1].result) {
		return matched[0].format, nil
	}
	return AmountFormat{}, errors.New("calibration sample is ambiguous between separator policies")
}

func sameNumbers(a, b Result) bool {
	if a.Total != b.Total || len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if a.Items[i].Quantity != b.Items[i].Quantity ||
			a.Items[i].UnitPrice != b.Items[i].UnitPrice ||
			a.Items[i].LineTotal != b.Items[i].LineTotal {
			return false
		}
	}
	return true
}
