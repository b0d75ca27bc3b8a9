package banner

import "fmt"

const banner = `
 ____ _   _ _  _ ___  ____ ____ ____ ____
[__    \_/  |\ | |__] |__| |__/ [__  |___
___]    |   | \| |    |  | |  \ ___] |___
`

// Print shows the run configuration before a render pass so the examiner
// can verify inputs at a glance.
func Print(messagesDir, outDir, contacts, target, version string) {
	fmt.Print(banner)
	fmt.Println("== Run ========================================================")
	fmt.Printf("Messages:  %s\n", messagesDir)
	fmt.Printf("Output:    %s\n", outDir)
	if contacts != "" {
		fmt.Printf("Contacts:  %s\n", contacts)
	} else {
		fmt.Println("Contacts:  (none; raw numbers will be shown)")
	}
	fmt.Printf("Target:    %s\n", target)
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
	fmt.Println("===============================================================")
}
