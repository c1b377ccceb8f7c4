package main

import (
	"fmt"
	"strings"

	"github.com/subscope/subscope/pkg/keywords"
)

// KeywordsCmd groups topic keyword commands
type KeywordsCmd struct {
	List   KeywordsListCmd   `command:"list" description:"show topics and their keywords"`
	Add    KeywordsAddCmd    `command:"add" description:"add a topic with no keywords"`
	Delete KeywordsDeleteCmd `command:"delete" description:"delete a topic"`
	Set    KeywordsSetCmd    `command:"set" description:"replace keywords of a topic"`
	Reset  KeywordsResetCmd  `command:"reset" description:"restore default topics"`
}

// KeywordsListCmd prints topics as a table
type KeywordsListCmd struct {
	commonOpts `no-flag:"true"`
}

// Execute implements flags.Commander
func (c *KeywordsListCmd) Execute(_ []string) error {
	topics := c.store().Load()
	rows := make([][]string, 0, topics.Len())
	topics.Each(func(name string, kws []string) bool {
		rows = append(rows, []string{name, strings.Join(kws, ", ")})
		return true
	})
	fmt.Fprintln(c.out, renderTable([]string{"Topic", "Keywords"}, rows))
	return nil
}

// KeywordsAddCmd adds a topic
type KeywordsAddCmd struct {
	commonOpts `no-flag:"true"`

	Args struct {
		Topic string `positional-arg-name:"topic" required:"true"`
	} `positional-args:"yes" required:"yes"`
}

// Execute implements flags.Commander
func (c *KeywordsAddCmd) Execute(_ []string) error {
	var name string
	_, err := c.store().Update(func(t *keywords.Topics) (err error) {
		name, err = t.Add(c.Args.Topic)
		return err
	})
	if err != nil {
		return fmt.Errorf("add topic: %w", err)
	}
	fmt.Fprintf(c.out, "topic %q added\n", name)
	return nil
}

// KeywordsDeleteCmd removes a topic
type KeywordsDeleteCmd struct {
	commonOpts `no-flag:"true"`

	Args struct {
		Topic string `positional-arg-name:"topic" required:"true"`
	} `positional-args:"yes" required:"yes"`
}

// Execute implements flags.Commander
func (c *KeywordsDeleteCmd) Execute(_ []string) error {
	name := keywords.NormalizeName(c.Args.Topic)
	if _, err := c.store().Update(func(t *keywords.Topics) error { return t.Delete(name) }); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	fmt.Fprintf(c.out, "topic %q deleted\n", name)
	return nil
}

// KeywordsSetCmd replaces keyword list of a topic, each argument may hold several comma separated keywords
type KeywordsSetCmd struct {
	commonOpts `no-flag:"true"`

	Args struct {
		Topic    string   `positional-arg-name:"topic" required:"true"`
		Keywords []string `positional-arg-name:"keyword"`
	} `positional-args:"yes" required:"yes"`
}

// Execute implements flags.Commander
func (c *KeywordsSetCmd) Execute(_ []string) error {
	name := keywords.NormalizeName(c.Args.Topic)
	var kws []string
	for _, k := range c.Args.Keywords {
		kws = append(kws, strings.Split(k, ",")...)
	}
	kws = keywords.CleanKeywords(kws)

	if _, err := c.store().Update(func(t *keywords.Topics) error { return t.Replace(name, kws) }); err != nil {
		return fmt.Errorf("set keywords: %w", err)
	}
	fmt.Fprintf(c.out, "topic %q has %d keywords\n", name, len(kws))
	return nil
}

// KeywordsResetCmd restores the default topics
type KeywordsResetCmd struct {
	commonOpts `no-flag:"true"`
}

// Execute implements flags.Commander
func (c *KeywordsResetCmd) Execute(_ []string) error {
	topics, err := c.store().Update(func(t *keywords.Topics) error {
		t.Reset()
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset keywords: %w", err)
	}
	fmt.Fprintf(c.out, "keywords reset to %d default topics\n", topics.Len())
	return nil
}

func (c *commonOpts) store() *keywords.Store {
	return keywords.NewStore(c.cfg.Collect.KeywordsFile)
}
