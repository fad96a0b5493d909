// Package cli hosts a gridterm emulator on a real terminal. It starts a
// command under a PTY, feeds its output through the emulator, and mirrors the
// emulated screen to stdout, resizing the PTY when the hosting terminal
// changes size.
//
// It is mainly a reference host and a convenient way to exercise the emulator
// against real applications:
//
//	sess, err := cli.NewSession(exec.Command("bash"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := sess.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package cli
