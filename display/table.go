package display

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/rank"
	"github.com/teranos/plaszyme/search"
)

// SearchTable renders the ranked matches of resp as a table, optionally
// followed by each match's alignment preview.
func SearchTable(w io.Writer, resp *search.Response, withAlignment bool) error {
	info := resp.SearchInfo
	fmt.Fprintf(w, "Query length %d, threshold %s, tag %s, structure %s: %d match(es)\n\n",
		info.SequenceLength, info.Threshold, info.TagFilter, info.StructureFilter, resp.TotalCount)

	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No matches above the similarity threshold.")
		return nil
	}

	data := pterm.TableData{{"#", "ID", "Name", "Organism", "Substrates", "Identity", "Score", "Coverage"}}
	for i, m := range resp.Results {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			m.CandidateID,
			truncate(m.Name, 40),
			truncate(m.Organism, 30),
			m.TagSummary,
			fmt.Sprintf("%.1f%%", m.Identity),
			strconv.Itoa(m.Score),
			fmt.Sprintf("%d%%", m.Coverage),
		})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)

	if withAlignment {
		for _, m := range resp.Results {
			writeAlignment(w, m)
		}
	}
	return nil
}

func writeAlignment(w io.Writer, m rank.Match) {
	if m.Alignment.Empty() {
		return
	}
	fmt.Fprintf(w, "\n%s\n", m.CandidateID)
	fmt.Fprintf(w, "  Query  %s\n", m.Alignment.Query)
	fmt.Fprintf(w, "         %s\n", m.Alignment.Match)
	fmt.Fprintf(w, "  Sbjct  %s\n", m.Alignment.Subject)
}

// StatsTable renders corpus statistics.
func StatsTable(w io.Writer, st *enzyme.Stats) error {
	summary := pterm.TableData{
		{"Total enzymes", strconv.Itoa(st.TotalEnzymes)},
		{"Unique sequences", strconv.Itoa(st.UniqueSequences)},
		{"With 3D structure", strconv.Itoa(st.WithStructure)},
		{"Plastic types", strconv.Itoa(st.SubstrateTypes)},
	}
	out, err := pterm.DefaultTable.WithData(summary).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)

	for _, section := range []struct {
		title  string
		counts []enzyme.Count
	}{
		{"Plastics", st.Substrates},
		{"Top hosts", st.Organisms},
		{"Top EC numbers", st.ECNumbers},
	} {
		if len(section.counts) == 0 {
			continue
		}
		data := pterm.TableData{{section.title, "Count"}}
		for _, c := range section.counts {
			data = append(data, []string{c.Name, strconv.Itoa(c.Count)})
		}
		out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n", out)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
