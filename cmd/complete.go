package cmd

import (
	"context"
	"flag"

	"github.com/etnz/budget"
	"github.com/etnz/budget/docs"
	"github.com/etnz/budget/store"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of the commands registered in
// c, global flags included. Account, envelope and goal flags predict the
// names found in the saved ledger.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine, ""),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		root.Sub[cmd.Name()] = &complete.Command{Flags: flags(fs, cmd.Name())}
	})
	if topic, ok := root.Sub["topic"]; ok {
		topics, _ := docs.GetAllTopics()
		topic.Args = predict.Set(topics)
	}
	return root
}

func flags(fs *flag.FlagSet, command string) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		m[f.Name] = predictor(command, f)
	})
	return m
}

type boolFlag interface{ IsBoolFlag() bool }

// predictor returns the predictor of flag f of command.
func predictor(command string, f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(boolFlag); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch f.Name {
	case "a", "from", "to":
		return complete.PredictFunc(func(string) []string { return names(accountKeys) })
	case "e":
		return complete.PredictFunc(func(string) []string { return names(envelopeNames) })
	case "type":
		return predict.Set{string(budget.Salary), string(budget.Savings), string(budget.Emergency)}
	case "kind":
		return predict.Set{budget.MinBalanceAlert.String(), budget.AutoTransfer.String(), budget.MonthlyTransferSchedule.String()}
	case "html":
		return predict.Files("*.html")
	case "config":
		return predict.Files("*.toml")
	case "name":
		if command == "fund-goal" {
			return complete.PredictFunc(func(string) []string { return names(goalNames) })
		}
	}
	return predict.Something
}

// names loads the saved ledger and lists names with list. Completion stays
// silent on errors.
func names(list func(*budget.Ledger) []string) []string {
	cfg, err := LoadConfig()
	if err != nil {
		return nil
	}
	s, closer, err := store.Open(cfg.Storage.Backend, cfg.StatePath())
	if err != nil {
		return nil
	}
	defer closer.Close()
	l, err := budget.Load(context.Background(), s, cfg.General.Currency)
	if err != nil {
		return nil
	}
	return list(l)
}

func accountKeys(l *budget.Ledger) []string {
	var keys []string
	for a := range l.Accounts() {
		keys = append(keys, string(a.Key))
	}
	return keys
}

func envelopeNames(l *budget.Ledger) []string {
	var list []string
	for name := range l.Envelopes() {
		list = append(list, name)
	}
	return list
}

func goalNames(l *budget.Ledger) []string {
	var list []string
	for g := range l.Goals() {
		list = append(list, g.Name)
	}
	return list
}
