package prompt

import (
	"context"
	"fmt"
)

// SelectViews asks the user which of the named views to explore. Names
// already chosen (for example via a -view flag) come preselected. An empty
// selection is treated as an abort rather than a run of nothing.
func SelectViews(ctx context.Context, driver Driver, names, preselected []string) ([]string, error) {
	if driver == nil {
		return nil, fmt.Errorf("prompt: driver is required")
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("prompt: no views to select from")
	}

	chosen, err := driver.PickMany(ctx, PickConfig{
		Message:  "Views to explore",
		Options:  names,
		Defaults: intersect(names, preselected),
		Help:     "space toggles, enter confirms",
		PageSize: 15,
	})
	if err != nil {
		return nil, err
	}
	if len(chosen) == 0 {
		return nil, ErrAborted
	}
	return chosen, nil
}

func intersect(options, wanted []string) []string {
	if len(wanted) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(options))
	for _, name := range options {
		allowed[name] = struct{}{}
	}
	var out []string
	for _, name := range wanted {
		if _, ok := allowed[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
