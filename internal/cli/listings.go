package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/discover"
)

const defaultUserType = "buyer"

// Price shows the price filter, or sets it from two prices. "max" as the
// high bound means unbounded.
func (a *App) Price(_ context.Context, args []string) error {
	switch len(args) {
	case 0:
	case 2:
		low, err := parsePrice(args[0])
		if err != nil {
			return common.Invalid("low", err.Error())
		}
		high := a.price.Scale().Max
		if !strings.EqualFold(args[1], "max") {
			if high, err = parsePrice(args[1]); err != nil {
				return common.Invalid("high", err.Error())
			}
		}
		a.price.SetPrices(low, high)
	default:
		printlnFn("Usage: price [<low> <high|max>]")
		return nil
	}

	lo, hi := a.price.Positions()
	printlnFn(fmt.Sprintf("%s  %s", headerStyle.Render(a.price.Label()),
		mutedStyle.Render(fmt.Sprintf("handles at %.0f%% / %.0f%%", lo*100, hi*100))))
	return nil
}

// parsePrice accepts plain numbers with optional "$", "," and a k/m suffix.
func parsePrice(s string) (float64, error) {
	s = strings.ToLower(strings.NewReplacer("$", "", ",", "", "_", "").Replace(strings.TrimSpace(s)))
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult, s = 1e3, strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult, s = 1e6, strings.TrimSuffix(s, "m")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%q is not a price", s)
	}
	return v * mult, nil
}

// Discover imports listings around location for the current user.
func (a *App) Discover(ctx context.Context, location, userType string) error {
	uid, err := a.currentUser()
	if err != nil {
		return err
	}
	if a.importer == nil {
		printlnFn(mutedStyle.Render("Discover import is not configured."))
		return nil
	}
	if userType == "" {
		userType = defaultUserType
	}

	res, err := a.importer.Run(ctx, discover.Request{
		Location:          location,
		UserType:          userType,
		UserID:            uid,
		FetchDescriptions: true,
	})
	if err != nil {
		return err
	}
	if res.Throttled {
		printlnFn(mutedStyle.Render(fmt.Sprintf("Imported %s; showing that result.", relTime(res.At, now()))))
	}
	printlnFn(fmt.Sprintf("%d listings posted for %s (%s)", res.Posted, res.Location, res.UserType))
	return nil
}
