package repl

import (
	"context"
	"fmt"

	"gradebook/internal/analytics"

	"github.com/jedib0t/go-pretty/v6/table"
)

func commandTable() []command {
	return []command{
		{name: "exit", description: "Exit the application", run: exit},
		{name: "help", description: "List all the commands", run: help},
		{name: "course", description: "Change current course", run: course},
		{name: "points", description: "Print total points in course", run: points},
		{name: "comments", description: "Print how many comments in course", run: comments},
		{name: "graded", description: "Print ratio of graded/total assignments", run: graded},
		{name: "score_unweighted", description: "Print average unweighted score", run: scoreUnweighted},
		{name: "score", description: "Print average weighted score", run: scoreWeighted},
		{name: "group", description: "Print average of assignment group, by name", run: group},
		{name: "assignment", description: "Print the details of a specific assignment, by ID", run: assignment},
		{name: "list", description: "List all the assignments in the course", run: list},
		{name: "scores", description: "Plot the distribution of grades in the course", run: plot(analytics.Aggregator.PlotScores)},
		{name: "earliness", description: "Plot the distribution of the days assignments were submitted early", run: plot(analytics.Aggregator.PlotEarliness)},
		{name: "compare", description: "Plot the relationship between assignments' points possible and their weighted points possible", run: plot(analytics.Aggregator.PlotPoints)},
		{name: "predict", description: "Plot the trends in grades over assignments, showing max ever possible, max still possible, and minimum still possible", run: plot(analytics.Aggregator.PlotPrediction)},
		{name: "summary", description: "Print statistics of the graded scores in the course", run: summary},
	}
}

func exit(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	return 0, nil
}

func help(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	t := d.newTable()
	t.AppendHeader(table.Row{"Command", "Description"})
	for _, c := range d.commands {
		t.AppendRow(table.Row{c.name, c.description})
	}
	t.Render()
	return session.CourseID, nil
}

func course(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	rendered, err := d.agg.RenderCourses(ctx, session.User)
	if err != nil {
		return session.CourseID, err
	}
	fmt.Fprint(d.out, rendered)

	id, err := d.promptID(ctx, CoursePrompt)
	if err != nil {
		return session.CourseID, err
	}
	name, err := d.agg.FindCourseName(ctx, session.User, id)
	if err != nil {
		return session.CourseID, err
	}
	d.println(name)
	return id, nil
}

func points(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	total, err := d.agg.TotalPoints(ctx, session.User, session.CourseID)
	if err != nil {
		return session.CourseID, err
	}
	d.println(analytics.FormatNumber(total))
	return session.CourseID, nil
}

func comments(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	count, err := d.agg.CountComments(ctx, session.User, session.CourseID)
	if err != nil {
		return session.CourseID, err
	}
	d.println(count)
	return session.CourseID, nil
}

func graded(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	ratio, err := d.agg.GradedRatio(ctx, session.User, session.CourseID)
	if err != nil {
		return session.CourseID, err
	}
	d.println(ratio)
	return session.CourseID, nil
}

func (d *Dispatcher) printAverage(score analytics.Score) {
	if score.Empty() {
		d.println(NoGraded)
		return
	}
	if score.Possible == 0 {
		d.println(NoWeighted)
		return
	}
	d.println(analytics.FormatNumber(score.Value()))
}

func scoreUnweighted(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	score, err := d.agg.AverageUnweighted(ctx, session.User, session.CourseID)
	if err != nil {
		return session.CourseID, err
	}
	d.printAverage(score)
	return session.CourseID, nil
}

func scoreWeighted(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	score, err := d.agg.AverageWeighted(ctx, session.User, session.CourseID)
	if err != nil {
		return session.CourseID, err
	}
	d.printAverage(score)
	return session.CourseID, nil
}

func group(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	name, err := d.in.Prompt(ctx, GroupPrompt)
	if err != nil {
		return session.CourseID, err
	}
	score, err := d.agg.AverageGroup(ctx, session.User, session.CourseID, name)
	if err != nil {
		return session.CourseID, err
	}
	// an empty group averages to 0
	d.println(analytics.FormatNumber(score.Value()))
	if !score.Empty() {
		return session.CourseID, nil
	}

	groups, err := d.agg.GroupNames(ctx, session.User, session.CourseID)
	if err != nil {
		return session.CourseID, err
	}
	if suggestion := suggestGroup(name, groups); suggestion != "" {
		fmt.Fprintf(d.out, "did you mean %q?\n", suggestion)
	}
	return session.CourseID, nil
}

func assignment(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	id, err := d.promptID(ctx, AssignmentPrompt)
	if err != nil {
		return session.CourseID, err
	}
	rendered, err := d.agg.RenderAssignment(ctx, session.User, session.CourseID, id)
	if err != nil {
		return session.CourseID, err
	}
	d.println(rendered)
	return session.CourseID, nil
}

func list(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	rendered, err := d.agg.RenderAll(ctx, session.User, session.CourseID)
	if err != nil {
		return session.CourseID, err
	}
	fmt.Fprint(d.out, rendered)
	return session.CourseID, nil
}

func plot(producer func(analytics.Aggregator, context.Context, string, int64) error) handler {
	return func(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
		err := producer(d.agg, ctx, session.User, session.CourseID)
		return session.CourseID, err
	}
}

func summary(ctx context.Context, d *Dispatcher, session Session) (int64, error) {
	s, err := d.agg.Summarize(ctx, session.User, session.CourseID)
	if err != nil {
		return session.CourseID, err
	}
	if s.Count == 0 {
		d.println(NoGraded)
		return session.CourseID, nil
	}

	format := func(x float64) string { return fmt.Sprintf("%.3f", x) }
	t := d.newTable()
	t.AppendHeader(table.Row{"Graded", "Mean", "Median", "Std Dev", "Min", "Max"})
	t.AppendRow(table.Row{s.Count, format(s.Mean), format(s.Median), format(s.StdDev), format(s.Min), format(s.Max)})
	t.Render()
	return session.CourseID, nil
}
