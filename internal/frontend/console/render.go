package console

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/duel/internal/game/battle"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/state"
)

// DisplayName title-cases a combatant name for output.
func DisplayName(name string) string {
	if name == "" {
		return "Nameless"
	}
	return cases.Title(language.English).String(name)
}

// RenderIntro formats the matchup shown before the first turn.
func RenderIntro(p Palette, gs *state.GameState, created bool) string {
	var b strings.Builder
	if created {
		b.WriteString(p.Colorize(Dim, "No saved game found; a new one was created."))
		b.WriteString("\n")
	}
	b.WriteString(p.Colorize(Bold+BrightYellow, "=== DUEL ==="))
	b.WriteString("\n")
	b.WriteString(renderCombatant(p, BrightCyan, gs.Player))
	b.WriteString(p.Colorize(Dim, "        versus"))
	b.WriteString("\n")
	b.WriteString(renderCombatant(p, BrightRed, gs.Enemy))
	return b.String()
}

func renderCombatant(p Palette, color string, c combat.Combatant) string {
	e := c.Entity()
	return fmt.Sprintf("%s the %s  LP %s  DEX %d  STR %d  DMG %d  weapon: %s\n",
		p.Colorize(Bold+color, DisplayName(e.Name)),
		c.Archetype(),
		p.Colorize(BrightGreen, fmt.Sprint(e.LifePoints)),
		e.Dexterity, e.Strength, c.AttackDamage(), e.Weapon)
}

// RenderTurn formats one turn event as a single colored line.
func RenderTurn(p Palette, ev battle.TurnEvent) string {
	actor := p.Colorize(Bold, DisplayName(ev.Actor))
	target := p.Colorize(Bold, DisplayName(ev.Target))
	prefix := p.Colorf(Dim, "[turn %d] ", ev.Turn)

	switch ev.Action {
	case battle.ActionHeal:
		return prefix + fmt.Sprintf("%s heals for %s life points.", actor, p.Colorize(BrightGreen, fmt.Sprint(ev.Healed)))
	case battle.ActionFlee:
		roll := ""
		if ev.Roll != nil {
			roll = fmt.Sprintf(" (rolled %d on %s)", ev.Roll.Total(), ev.Roll.Expression)
		}
		if ev.Fled {
			return prefix + fmt.Sprintf("%s flees the fight%s.", actor, roll)
		}
		return prefix + fmt.Sprintf("%s tries to flee but fails%s.", actor, roll)
	}

	switch ev.Result.Kind {
	case combat.Miss:
		return prefix + fmt.Sprintf("%s attacks %s but %s.", actor, target, p.Colorize(Yellow, "misses"))
	case combat.TargetDefeated:
		return prefix + fmt.Sprintf("%s hits %s for %s damage. %s",
			actor, target, p.Colorize(BrightRed, fmt.Sprint(ev.Result.Amount)),
			p.Colorf(Bold+Red, "%s is defeated!", DisplayName(ev.Target)))
	default:
		return prefix + fmt.Sprintf("%s hits %s for %s damage.", actor, target, p.Colorize(Red, fmt.Sprint(ev.Result.Amount)))
	}
}

// RenderOutcome formats the final banner.
func RenderOutcome(p Palette, outcome battle.Outcome, turns int) string {
	switch outcome {
	case battle.PlayerWon:
		return p.Colorf(Bold+BrightGreen, "Victory after %d turns!", turns)
	case battle.EnemyWon:
		return p.Colorf(Bold+BrightRed, "Defeat after %d turns.", turns)
	case battle.PlayerFled:
		return p.Colorf(Bold+Yellow, "You escaped after %d turns.", turns)
	default:
		return p.Colorf(Dim, "The battle is %s after %d turns.", outcome, turns)
	}
}

// RenderMenu formats the numbered action menu.
func RenderMenu(p Palette, options []battle.Action) string {
	parts := make([]string, len(options))
	for i, a := range options {
		parts[i] = fmt.Sprintf("%s %s", p.Colorf(BrightCyan, "%d)", i+1), a)
	}
	return strings.Join(parts, "  ") + "\n> "
}
