package main

import (
	"fmt"
	"pgtpch/internal/config"

	"github.com/AlecAivazis/survey/v2"
)

var askOne = survey.AskOne

// selectConfs asks which configurations to run. All are preselected.
func selectConfs(defaults config.Conf, overrides []config.Conf) ([]config.Conf, error) {
	if len(overrides) == 0 {
		return overrides, nil
	}

	options := make([]string, len(overrides))
	for i, o := range overrides {
		merged := config.Merge(defaults, o)
		options[i] = fmt.Sprintf("%d: %s-%s %s", i+1, orUnset(merged["testname"]), orUnset(merged["scale"]), merged["query"])
	}

	var chosen []int
	prompt := &survey.MultiSelect{
		Message: "Select configurations to run:",
		Options: options,
		Default: options,
	}
	if err := askOne(prompt, &chosen); err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	selected := make([]config.Conf, 0, len(chosen))
	for _, idx := range chosen {
		selected = append(selected, overrides[idx])
	}
	return selected, nil
}

func orUnset(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
