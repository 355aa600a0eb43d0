// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The screen has three panels that take focus in turn (tab):
//  1. Search : keyword input with media filter (ctrl+f) and sort (ctrl+s) selectors
//  2. Results : catalog matches; enter adds to the playlist, space plays the preview
//  3. Playlist : curated entries; space plays, d removes
//
// The (view) [Model] implements Init/Update/View and owns an [app.State]. Catalog
// searches run in a [tea.Cmd] and report back through the Msg union type; typing is
// debounced so a search starts once the keyword settles. Previews play through a
// [player.Launcher] and the end of playback arrives as a message as well.
//
// ctrl+t switches between the dark and light palettes.
package ui
