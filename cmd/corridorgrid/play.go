package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/corridorgrid/environment"
	"github.com/samuelfneumann/corridorgrid/environment/corridor"
	"github.com/samuelfneumann/corridorgrid/environment/doorcorridor"
	"github.com/spf13/cobra"
)

var corridorKeys = map[string]int{
	"a": corridor.Left,
	"d": corridor.Right,
}

var doorCorridorKeys = map[string]int{
	"a": doorcorridor.TurnLeft,
	"d": doorcorridor.TurnRight,
	"w": doorcorridor.Forward,
	"t": doorcorridor.Toggle,
}

// palette maps the runes of a rendered frame to their colours
type palette map[rune]func(arg interface{}) aurora.Value

func corridorPalette(au aurora.Aurora) palette {
	return palette{'*': au.Red, 'G': au.Green, '^': au.Yellow, 'S': au.Blue}
}

func doorCorridorPalette(au aurora.Aurora) palette {
	return palette{
		'>': au.Red, 'v': au.Red, '<': au.Red, '^': au.Red,
		'D': au.Yellow, 'd': au.Yellow, 'G': au.Green, '#': au.Blue,
	}
}

// paint colours each rune of frame found in the palette
func (p palette) paint(frame string) string {
	var b strings.Builder
	for _, r := range frame {
		if colour, ok := p[r]; ok {
			b.WriteString(colour(string(r)).String())
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func playCmd(opts *options) *cobra.Command {
	var color bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Control an environment manually from the keyboard",
		Long: "Control an environment manually, one key per line: a/d move " +
			"left/right in corridors; a/d turn, w moves forward and t " +
			"toggles in door corridors; r resets and q quits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.registry()
			if err != nil {
				return err
			}
			e, _, err := r.Make(opts.envID, opts.seed)
			if err != nil {
				return err
			}

			au := aurora.NewAurora(color)
			keys, colours := corridorKeys, corridorPalette(au)
			if _, ok := e.(*doorcorridor.DoorCorridor); ok {
				keys, colours = doorCorridorKeys, doorCorridorPalette(au)
			}

			return play(e, keys, colours, opts.seed, cmd.InOrStdin(),
				cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&color, "color", false, "colour the rendered frames")
	return cmd
}

// play runs the manual control loop, reading one key per line from in
// until q is read or in is exhausted
func play(e environment.Environment, keys map[string]int, colours palette,
	seed uint64, in io.Reader, out io.Writer) error {
	draw := func() {
		fmt.Fprintln(out, colours.paint(e.Render()))
	}
	reset := func() error {
		e.Seed(seed)
		if _, err := e.Reset(); err != nil {
			return err
		}
		draw()
		return nil
	}

	if err := reset(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		key := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch key {
		case "":
			continue
		case "q":
			return nil
		case "r":
			if err := reset(); err != nil {
				return err
			}
			continue
		}

		action, ok := keys[key]
		if !ok {
			fmt.Fprintf(out, "unknown key %q\n", key)
			continue
		}

		step, _, err := e.Step(environment.NewAction(action))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "reward=%.2f\n", step.Reward)

		switch {
		case step.Terminated():
			fmt.Fprintln(out, "terminated!")
			err = reset()
		case step.Truncated():
			fmt.Fprintln(out, "truncated!")
			err = reset()
		default:
			draw()
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}
