// Package report ranks a usage table and writes it out.
//
// [Rank] orders entries by count, highest first. Entries with equal counts
// keep the order in which their names were first recorded, so two runs over
// the same listing produce byte-identical output.
//
// # Formats
//
//   - CSV ([WriteCSV], [ReadCSV]): header "Dependency,Usage", one row per
//     entry. This is the default artifact, deps.csv.
//   - JSON ([WriteJSON], [ReadJSON]): the whole [Report] including run
//     metadata.
//   - Table ([RenderTable]): a bordered terminal table of the top entries.
package report
