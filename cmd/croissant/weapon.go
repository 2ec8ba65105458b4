package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"croissant/internal/weapon"
)

var (
	weaponList bool
	weaponSwap string
)

var weaponCmd = &cobra.Command{
	Use:   "weapon <name> [attack|repair]...",
	Short: "Let a fighter use a weapon",
	Long: `Equip a fighter with the named weapon and perform actions with it.
Without actions the fighter attacks and then repairs.

--swap equips a second weapon and performs the same actions again.

Examples:
  croissant weapon sword
  croissant weapon bow attack attack repair
  croissant weapon axe attack --swap sword
  croissant weapon --list`,
	Args: func(cmd *cobra.Command, args []string) error {
		if weaponList {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runWeapon,
}

func init() {
	weaponCmd.Flags().BoolVar(&weaponList, "list", false, "List available weapons")
	weaponCmd.Flags().StringVar(&weaponSwap, "swap", "", "Weapon to equip after the first round")
	rootCmd.AddCommand(weaponCmd)
}

func runWeapon(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if weaponList {
		for _, name := range weapon.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	actions := []weapon.Action{weapon.ActionAttack, weapon.ActionRepair}
	if len(args) > 1 {
		actions = actions[:0]
		for _, s := range args[1:] {
			a, err := weapon.ParseAction(s)
			if err != nil {
				return err
			}
			actions = append(actions, a)
		}
	}

	w, err := weapon.NewWeapon(args[0], out)
	if err != nil {
		return err
	}
	fighter := weapon.NewFighter(w)
	if err := fighter.Perform(actions...); err != nil {
		return err
	}

	if weaponSwap == "" {
		return nil
	}
	next, err := weapon.NewWeapon(weaponSwap, out)
	if err != nil {
		return err
	}
	current.logger.Debug("swapping weapon", "from", w.Name(), "to", next.Name())
	fighter.Equip(next)
	return fighter.Perform(actions...)
}
