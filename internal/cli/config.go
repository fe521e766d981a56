package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/faveday/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Run:   runConfigShow,
	}
	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration key and save the file",
		Long:  "Set a configuration key by its YAML name, e.g. score_type, default_empty_score, birth_date, life_quality_weights.5",
		Args:  cobra.ExactArgs(2),
		Run:   runConfigSet,
	}

	cmd.AddCommand(show, set)
	RootCmd.AddCommand(cmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if textFormat() {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			exitErr("encode config", err)
		}
		fmt.Printf("# %s\n%s", getConfigPath(), b)
		return
	}
	printJSON(cfg)
}

func runConfigSet(cmd *cobra.Command, args []string) {
	m := loadManager()
	if err := m.Update(func(c *config.Config) error {
		return c.Set(args[0], args[1])
	}); err != nil {
		exitErr("config set", err)
	}
	if err := m.Save(); err != nil {
		exitErr("save config", err)
	}
	fmt.Printf(`{"ok":true,"path":%q}`+"\n", m.Path())
}
