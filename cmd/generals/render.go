package main

import (
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/byzantine-generals/generals"
)

func printBanner() {
	pterm.Print("\n")
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("B", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("yzantine ", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("G", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("enerals", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}
	pterm.Println()
}

func renderResult(res *generals.RunResult) {
	rows := pterm.TableData{{"Participant", "Loyalty", "Decision"}}
	commanderLoyalty := "loyal"
	if !res.Loyalty[generals.CommanderID] {
		commanderLoyalty = "traitor"
	}
	rows = append(rows, []string{
		generals.CommanderID.String(), commanderLoyalty, string(res.Order) + " (issued)",
	})
	for i := 1; i < len(res.Loyalty); i++ {
		id := generals.ID(i)
		loyalty := "loyal"
		if !res.Loyalty[id] {
			loyalty = "traitor"
		}
		rows = append(rows, []string{id.String(), loyalty, string(res.Decisions[id])})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	s := res.Summary()
	verdict := pterm.Sprintf("Majority decision: %s (%d/%d lieutenants)",
		s.Plurality, s.Count, len(res.Decisions))
	box := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(pterm.LightYellow("|RESULT|")).WithTitleTopCenter()
	pterm.Println(box.Sprint(verdict))

	if res.Agreement() && res.Validity() {
		pterm.Success.Println("All loyal lieutenants agree")
	} else if res.Agreement() {
		pterm.Success.Println("Loyal lieutenants agree (commander was a traitor, validity not required)")
	} else {
		pterm.Error.Println("Loyal lieutenants disagree")
	}
}
