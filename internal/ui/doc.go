// Package ui provides the carbook terminal storefront.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model with two screens:
//
//   - Wizard: city, brand, model and fuel steps. A text input filters the
//     option list; free text is accepted where the catalogue has no fixed
//     list (unlisted cities, models of brands without a model list).
//   - Listing: the services of the current category priced for the current
//     car, with category tabs and a status badge.
//
// The model never fetches anything itself. It reads a Storefront (the app
// session) on every tick and drives it through SetCategory, Refresh and
// ClearCar. Fetching happens in the session's dependent query trigger, so a
// wizard completion shows up on the listing as soon as the debounced fetch
// lands.
//
// # Status Badges
//
//   - LOADING: a fetch is in flight or nothing has been fetched yet
//   - LIVE: prices were computed for the selected brand and model
//   - BASE: the API returned category base prices
//   - STALE: the shown prices belong to a previous selection
//   - ERROR: the first fetch failed
//   - OFFLINE: two or more fetches failed in a row
//
// # Key Bindings
//
// Listing screen:
//
//   - j/k, up/down, g/G: move through services
//   - tab/shift+tab: switch category
//   - c: change car (wizard from the brand step)
//   - x: clear the car and restart the wizard
//   - r: refetch prices
//   - T: cycle theme, ?: help, q: quit
//
// Wizard screen: type to filter, up/down to move, enter to choose, esc for
// the previous step, ctrl+c to quit.
//
// # Preferences
//
// The theme and the last category are saved through package prefs into the
// same key-value store that holds the car selection.
package ui
