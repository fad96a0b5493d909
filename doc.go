// Package gridterm provides a headless ANSI/VT100 terminal emulator.
//
// The emulator maintains a rows x cols grid of styled cells and updates it by
// parsing the byte stream an application writes to its terminal. There is no
// display; hosts read the grid back through accessors, snapshots, or a
// rendered image. Typical uses:
//
//   - Testing terminal applications without a GUI
//   - Embedding a terminal in a custom renderer (tcell, web, image)
//   - Screen scraping and automation of CLI tools
//
// # Quick Start
//
// Terminal implements [io.Writer]; write raw bytes containing ANSI escape
// sequences to it:
//
//	term := gridterm.New()
//	term.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!")
//	fmt.Println(term.String()) // "Hello World!"
//
// Escape sequences and UTF-8 runes split across Write calls are reassembled,
// so the emulator can be fed directly from a PTY:
//
//	term := gridterm.New(
//	    gridterm.WithSize(24, 80),
//	    gridterm.WithResponse(ptyWriter),
//	    gridterm.WithScrollback(gridterm.NewMemoryScrollback(10000)),
//	)
//	go io.Copy(term, ptyReader)
//
// # Core Types
//
//   - [Terminal]: the emulator; parses sequences and owns all state
//   - [Buffer]: the cell grid with scroll and resize operations
//   - [Cell]: one character with its [Style]
//   - [Theme]: maps default and indexed colors to RGBA for rendering
//
// # Styles and Themes
//
// Cells written without explicit colors stay bound to the theme: swapping the
// theme recolors them, while cells colored via SGR 30-38/40-48 keep their
// color. Use [Theme.ResolveFg] and [Theme.ResolveBg] when rendering.
//
// # Alternate Screen
//
// Full-screen applications switch to the alternate screen with CSI ?1049h.
// The main screen, cursor, and scroll region are saved and restored verbatim
// on exit, and scrollback never accumulates while the alternate screen is
// active. Check [Terminal.IsAlternateScreen] to see which is live.
//
// # Input Encoding
//
// The terminal also encodes host input for the application, honoring the
// modes the application negotiated (application cursor keys, bracketed
// paste, mouse tracking):
//
//	data := term.EncodeKey(gridterm.KeyEvent{Key: gridterm.KeyUp})
//	pty.Write(data)
//
// # Providers
//
// Events flow out through small provider interfaces, all optional with no-op
// defaults: [BellProvider], [TitleProvider], [ChangeProvider], and
// [ScrollbackProvider].
//
// # Thread Safety
//
// All Terminal methods are safe for concurrent use. Provider callbacks run
// outside the internal lock, so they may call back into the terminal.
package gridterm
