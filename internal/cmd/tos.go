package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/ascii"

	"github.com/linkscout/linkscout/internal/config"
)

const tosWarning = `Terms of Service Warning

This tool uses an unofficial API and may violate the network's
Terms of Service.

By using this tool, you acknowledge that:
- You are solely responsible for how you use it
- Your account may be restricted or banned
- It is provided as-is without any warranties

Use at your own risk.`

// ErrTOSDeclined is returned when the user declines the terms prompt.
var ErrTOSDeclined = errors.New("terms of service declined")

// ensureTOSAccepted gates quota-consuming commands behind a one-time
// terms acceptance, persisted in the local settings file. assumeYes skips
// the interactive prompt.
func ensureTOSAccepted(assumeYes bool) error {
	path := config.SettingsPath(config.DefaultDataDir())

	settings, err := config.LoadSettings(path)
	if err != nil {
		return err
	}
	if settings.TOSAccepted {
		return nil
	}

	if !assumeYes {
		fmt.Print(ascii.DrawBox(tosWarning, 0))
		fmt.Print("\nDo you accept these terms and wish to continue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return ErrTOSDeclined
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			return ErrTOSDeclined
		}
	}

	settings.AcceptTOS(time.Now())
	if err := config.SaveSettings(path, settings); err != nil {
		return err
	}

	fmt.Println("Terms accepted. Proceeding...")
	return nil
}
