package summary

import (
	"fmt"

	"penguindash/internal/dataset"
	"penguindash/internal/filter"
)

// InvalidSelection is shown when the plot type or axis is not recognised
const InvalidSelection = "Select a valid plot type and x-axis"

// Box is one value box of the dashboard header
type Box struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type unit struct {
	label  string
	suffix string
}

var units = map[string]unit{
	dataset.ColBillLength: {"bill length", "mm"},
	dataset.ColBillDepth:  {"bill depth", "mm"},
	dataset.ColBodyMass:   {"body mass", "g"},
}

// Label returns the human name of a numeric column, e.g. "bill length"
func Label(column string) string {
	if u, ok := units[column]; ok {
		return u.label
	}
	return column
}

// Unit returns the measurement unit of a numeric column
func Unit(column string) string {
	return units[column].suffix
}

// ValueBoxes renders the four header boxes. The first counts rows. With a
// scatterplot the others show the average of each measurement; with a
// histogram they show average, median and range of the x axis.
func ValueBoxes(v filter.View, st filter.State) [4]Box {
	boxes := [4]Box{{Title: "Penguins", Text: fmt.Sprintf("%d penguins", v.Len())}}

	switch st.Plot {
	case filter.PlotScatter:
		for i, col := range dataset.NumericColumns {
			s := Describe(v, col)
			boxes[i+1] = Box{Title: title(col), Text: average(s)}
		}
	case filter.PlotHistogram:
		if _, ok := units[st.XAxis]; !ok {
			return fillInvalid(boxes)
		}
		s := Describe(v, st.XAxis)
		boxes[1] = Box{Title: "Average", Text: average(s)}
		boxes[2] = Box{Title: "Median", Text: median(s)}
		boxes[3] = Box{Title: "Range", Text: spread(s)}
	default:
		return fillInvalid(boxes)
	}
	return boxes
}

func fillInvalid(boxes [4]Box) [4]Box {
	for i := 1; i < len(boxes); i++ {
		boxes[i] = Box{Title: "Summary", Text: InvalidSelection}
	}
	return boxes
}

func title(column string) string {
	l := Label(column)
	return string(l[0]-'a'+'A') + l[1:]
}

func average(s Stats) string {
	if s.Empty {
		return NoData
	}
	return fmt.Sprintf("Average %s: %.1f %s", Label(s.Column), s.Mean, Unit(s.Column))
}

func median(s Stats) string {
	if s.Empty {
		return NoData
	}
	return fmt.Sprintf("Median %s: %.1f %s", Label(s.Column), s.Median, Unit(s.Column))
}

func spread(s Stats) string {
	if s.Empty {
		return NoData
	}
	u := Unit(s.Column)
	return fmt.Sprintf("Range of %s: %.1f %s - %.1f %s", Label(s.Column), s.Min, u, s.Max, u)
}
