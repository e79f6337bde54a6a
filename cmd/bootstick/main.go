package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/osbuild/bootstick/pkg/bcd"
	"github.com/osbuild/bootstick/pkg/devpath"
	"github.com/osbuild/bootstick/pkg/installdisk"
)

var osStdout io.Writer = os.Stdout

func loadSetup(cmd *cobra.Command) (*installdisk.Workflow, *installdisk.Layout, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := installdisk.LoadToolConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	layoutPath, err := cmd.Flags().GetString("layout")
	if err != nil {
		return nil, nil, err
	}
	layout := installdisk.DefaultLayout()
	if layoutPath != "" {
		layout, err = installdisk.LoadLayout(layoutPath)
		if err != nil {
			return nil, nil, err
		}
	}

	svc, err := bcd.NewService()
	if err != nil {
		return nil, nil, err
	}
	workflow := installdisk.NewWorkflow(svc, installdisk.NewTools(cfg), devpath.New())
	return workflow, layout, nil
}

func targetDisk(cmd *cobra.Command) (*installdisk.InstallDisk, error) {
	bootVolume, err := cmd.Flags().GetString("boot-volume")
	if err != nil {
		return nil, err
	}
	installerVolume, err := cmd.Flags().GetString("installer-volume")
	if err != nil {
		return nil, err
	}
	if bootVolume != "" && installerVolume != "" {
		return &installdisk.InstallDisk{BootVolume: bootVolume, InstallerVolume: installerVolume}, nil
	}
	return installdisk.GetUSBDisk()
}

func cmdInit(cmd *cobra.Command, args []string) error {
	workflow, layout, err := loadSetup(cmd)
	if err != nil {
		return err
	}
	diskIndex, err := cmd.Flags().GetInt("disk")
	if err != nil {
		return err
	}
	bootVolume, err := cmd.Flags().GetString("boot-volume")
	if err != nil {
		return err
	}
	installerVolume, err := cmd.Flags().GetString("installer-volume")
	if err != nil {
		return err
	}

	target := installdisk.InstallDisk{BootVolume: bootVolume, InstallerVolume: installerVolume}
	return workflow.Initialize(diskIndex, args[0], layout, target)
}

func cmdAdd(cmd *cobra.Command, args []string) error {
	workflow, layout, err := loadSetup(cmd)
	if err != nil {
		return err
	}
	d, err := targetDisk(cmd)
	if err != nil {
		return err
	}
	wds, err := cmd.Flags().GetBool("wds")
	if err != nil {
		return err
	}
	if wds {
		return workflow.AddWdsInstaller(d, args[0], args[1], layout)
	}
	return workflow.AddInstaller(d, args[0], args[1], layout)
}

func cmdShow(cmd *cobra.Command, args []string) error {
	svc, err := bcd.NewService()
	if err != nil {
		return err
	}
	d, err := targetDisk(cmd)
	if err != nil {
		return err
	}
	return showDisk(osStdout, svc, d)
}

func showDisk(w io.Writer, svc bcd.Service, d *installdisk.InstallDisk) error {
	stores := d.StorePaths()
	if len(stores) == 0 {
		return fmt.Errorf("no configuration stores found on boot volume %s", d.BootVolume)
	}

	for _, path := range stores {
		store, err := bcd.OpenStore(svc, path)
		if err != nil {
			return err
		}
		mgr, err := store.BootManager()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "store %s\n", path)

		if elem, err := mgr.Element("Timeout"); err == nil {
			if timeout, err := elem.AsInteger(); err == nil {
				fmt.Fprintf(w, "  timeout: %ds\n", timeout)
			}
		}
		if elem, err := mgr.Element("DisplayBootMenu"); err == nil {
			if menu, err := elem.AsBoolean(); err == nil {
				fmt.Fprintf(w, "  menu: %v\n", menu)
			}
		}

		elem, err := mgr.Element("DisplayOrder")
		if err != nil {
			fmt.Fprintf(w, "  no boot entries\n")
			continue
		}
		ids, err := elem.AsObjectList()
		if err != nil {
			return err
		}
		for i, id := range ids {
			description := "(no description)"
			if loader, err := store.OpenObject(id); err == nil {
				if elem, err := loader.Element("Description"); err == nil {
					if s, err := elem.AsString(); err == nil {
						description = s
					}
				}
			}
			fmt.Fprintf(w, "  %d. %s {%s}\n", i+1, description, id)
		}
	}
	return nil
}

func run() error {
	logrus.SetLevel(logrus.WarnLevel)

	rootCmd := &cobra.Command{
		Use:   "bootstick",
		Short: "Build multi-boot install disks and keep their boot menus in sync",
		Long: `Build multi-boot install disks and keep their boot menus in sync

Bootstick prepares removable install media with a FAT boot volume and an
NTFS installer volume, and registers each installer in every boot
configuration store on the disk, legacy and UEFI alike.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "Show tool invocations and store operations")
	rootCmd.PersistentFlags().String("config", "bootstick.toml", "Tool configuration file")
	rootCmd.PersistentFlags().String("layout", "", "Media layout manifest")
	rootCmd.PersistentFlags().String("boot-volume", "", "Boot volume drive letter, e.g. Y:")
	rootCmd.PersistentFlags().String("installer-volume", "", "Installer volume drive letter, e.g. Z:")

	initCmd := &cobra.Command{
		Use:          "init <source>",
		Short:        "Wipe a disk and build a fresh install disk from source media",
		RunE:         cmdInit,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
	}
	initCmd.Flags().Int("disk", -1, "Disk index to wipe and partition")
	_ = initCmd.MarkFlagRequired("disk")
	rootCmd.AddCommand(initCmd)

	addCmd := &cobra.Command{
		Use:          "add <name> <source>",
		Short:        "Add another installer to an existing install disk",
		RunE:         cmdAdd,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(2),
	}
	addCmd.Flags().Bool("wds", false, "The source is a deployment-services boot image")
	rootCmd.AddCommand(addCmd)

	showCmd := &cobra.Command{
		Use:          "show",
		Short:        "Show the boot menu state of an install disk",
		RunE:         cmdShow,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
	rootCmd.AddCommand(showCmd)

	return rootCmd.Execute()
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("error: %s", err)
	}
}
