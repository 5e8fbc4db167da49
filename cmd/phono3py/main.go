package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/jonahhaber/phono3py"
	"github.com/jonahhaber/phono3py/internal/calculator"
	"github.com/jonahhaber/phono3py/internal/config"
	"github.com/jonahhaber/phono3py/internal/export"
	"github.com/jonahhaber/phono3py/internal/ph3"
	"github.com/jonahhaber/phono3py/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	workDir       string
	projectFile   string
	calcName      string
	cellFile      string
	supercellFile string
	bornFile      string
	fc2File       string
	fc3File       string
	forcesFC2     string
	forcesFC3     string
	dim           []int
	dimFC2        []int
	primAxes      string
	meshFlag      []int
	noNAC         bool
	noSymmetry    bool
	symprec       float64
	verbose       bool
	configFile    string
	// freqs output
	svgFile string
	// units table format
	showAll bool
)

// main is the entry point for the phono3py CLI; it registers commands and
// flags and executes the root command, exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "phono3py",
		Short: "lattice anharmonicity toolkit",
	}

	rootCmd.PersistentFlags().StringVar(&workDir, "dir", ".", "working directory for default input files")
	rootCmd.PersistentFlags().StringVar(&projectFile, "project", "", "project yaml file (overrides cell flags)")
	rootCmd.PersistentFlags().StringVar(&calcName, "calc", "", "force calculator name (default vasp)")
	rootCmd.PersistentFlags().StringVarP(&cellFile, "cell", "c", "", "unit cell file")
	rootCmd.PersistentFlags().StringVar(&supercellFile, "supercell", "", "supercell file")
	rootCmd.PersistentFlags().StringVar(&bornFile, "born", "", "non-analytical term correction file")
	rootCmd.PersistentFlags().StringVar(&fc2File, "fc2", "", "second-order force constants (hdf5)")
	rootCmd.PersistentFlags().StringVar(&fc3File, "fc3", "", "third-order force constants (hdf5)")
	rootCmd.PersistentFlags().StringVar(&forcesFC2, "forces-fc2", "", "second-order raw forces file")
	rootCmd.PersistentFlags().StringVar(&forcesFC3, "forces-fc3", "", "third-order raw forces file")
	rootCmd.PersistentFlags().IntSliceVar(&dim, "dim", nil, "supercell matrix (3 or 9 ints)")
	rootCmd.PersistentFlags().IntSliceVar(&dimFC2, "dim-fc2", nil, "phonon supercell matrix (3 or 9 ints)")
	rootCmd.PersistentFlags().StringVar(&primAxes, "pa", "", "primitive axes: centering letter (F, I, A, C, R) or auto")
	rootCmd.PersistentFlags().IntSliceVar(&meshFlag, "mesh", nil, "sampling mesh (3 ints)")
	rootCmd.PersistentFlags().BoolVar(&noNAC, "no-nac", false, "disable non-analytical term correction")
	rootCmd.PersistentFlags().BoolVar(&noSymmetry, "no-sym", false, "disable symmetrization")
	rootCmd.PersistentFlags().Float64Var(&symprec, "tolerance", 1e-5, "symmetry tolerance")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "settings file (yaml)")

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "assemble a calculation from input files and summarize it",
		RunE:  runLoad,
	}

	unitsCmd := &cobra.Command{
		Use:   "units [calculator]",
		Short: "show unit conversion factors",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runUnits,
	}
	unitsCmd.Flags().BoolVar(&showAll, "all", false, "list every supported calculator")

	freqsCmd := &cobra.Command{
		Use:   "freqs",
		Short: "gamma-point frequencies from second-order force constants",
		RunE:  runFreqs,
	}
	freqsCmd.Flags().StringVar(&svgFile, "svg", "", "also write the spectrum to an SVG file")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "interactively browse a loaded calculation",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := load(cmd)
			if err != nil {
				return err
			}
			return tui.Run(inst)
		},
	}

	rootCmd.AddCommand(loadCmd, unitsCmd, freqsCmd, browseCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyConfig overlays settings-file values under the flags. Flags
// given explicitly on the command line keep their value.
func applyConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !cmd.Flags().Changed("project") {
		projectFile = cfg.ProjectFile
	}
	if !cmd.Flags().Changed("calc") {
		calcName = cfg.Calculator
	}
	if !cmd.Flags().Changed("tolerance") {
		symprec = cfg.Tolerance
	}
	if !cmd.Flags().Changed("cell") {
		cellFile = cfg.Cells.UnitcellFilename
	}
	if !cmd.Flags().Changed("supercell") {
		supercellFile = cfg.Cells.SupercellFilename
	}
	if !cmd.Flags().Changed("dim") {
		dim = cfg.Cells.Dim
	}
	if !cmd.Flags().Changed("dim-fc2") {
		dimFC2 = cfg.Cells.DimFC2
	}
	if !cmd.Flags().Changed("fc3") {
		fc3File = cfg.Forces.FC3Filename
	}
	if !cmd.Flags().Changed("fc2") {
		fc2File = cfg.Forces.FC2Filename
	}
	if !cmd.Flags().Changed("forces-fc3") {
		forcesFC3 = cfg.Forces.ForcesFC3Filename
	}
	if !cmd.Flags().Changed("forces-fc2") {
		forcesFC2 = cfg.Forces.ForcesFC2Filename
	}
	if !cmd.Flags().Changed("born") {
		bornFile = cfg.Forces.BornFilename
	}
	if !cmd.Flags().Changed("mesh") {
		meshFlag = cfg.Mesh
	}
	if !cmd.Flags().Changed("pa") {
		primAxes = cfg.PrimitiveAxes
	}
	if cfg.NAC != nil && !cmd.Flags().Changed("no-nac") {
		noNAC = !*cfg.NAC
	}
	if cfg.Symmetry != nil && !cmd.Flags().Changed("no-sym") {
		noSymmetry = !*cfg.Symmetry
	}
	return nil
}

// load translates the shared flags into load options.
func load(cmd *cobra.Command) (*ph3.Phono3py, error) {
	if configFile != "" {
		if err := applyConfig(cmd); err != nil {
			return nil, err
		}
	}

	opts := []phono3py.Option{
		phono3py.WithWorkDir(workDir),
		phono3py.WithSymprec(symprec),
	}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, phono3py.WithLogger(logger))
	}
	if projectFile != "" {
		opts = append(opts, phono3py.WithProjectFile(projectFile))
	}
	if calcName != "" {
		opts = append(opts, phono3py.WithCalculator(calcName))
	}
	if cellFile != "" {
		opts = append(opts, phono3py.WithUnitcellFilename(cellFile))
	}
	if supercellFile != "" {
		opts = append(opts, phono3py.WithSupercellFilename(supercellFile))
	}
	if bornFile != "" {
		opts = append(opts, phono3py.WithBornFilename(bornFile))
	}
	if fc2File != "" {
		opts = append(opts, phono3py.WithFC2Filename(fc2File))
	}
	if fc3File != "" {
		opts = append(opts, phono3py.WithFC3Filename(fc3File))
	}
	if forcesFC2 != "" {
		opts = append(opts, phono3py.WithForcesFC2Filename(forcesFC2))
	}
	if forcesFC3 != "" {
		opts = append(opts, phono3py.WithForcesFC3Filename(forcesFC3))
	}
	if len(dim) > 0 {
		opts = append(opts, phono3py.WithSupercellMatrix(dim...))
	}
	if len(dimFC2) > 0 {
		opts = append(opts, phono3py.WithPhononSupercellMatrix(dimFC2...))
	}
	switch primAxes {
	case "":
	case "auto":
		opts = append(opts, phono3py.WithPrimitiveAuto())
	default:
		opts = append(opts, phono3py.WithPrimitiveCentering(primAxes))
	}
	if len(meshFlag) > 0 {
		if len(meshFlag) != 3 {
			return nil, fmt.Errorf("mesh needs 3 values, got %d", len(meshFlag))
		}
		opts = append(opts, phono3py.WithMesh([3]int{meshFlag[0], meshFlag[1], meshFlag[2]}))
	}
	if noNAC {
		opts = append(opts, phono3py.WithoutNAC())
	}
	if noSymmetry {
		opts = append(opts, phono3py.WithoutSymmetry())
	}
	return phono3py.Load(opts...)
}

func runLoad(cmd *cobra.Command, args []string) error {
	inst, err := load(cmd)
	if err != nil {
		return err
	}

	uc := inst.Unitcell()
	fmt.Printf("unit cell: %d atoms, volume %.4f A^3\n", uc.NumAtoms(), uc.Volume())
	fmt.Printf("supercell: %d atoms\n", inst.Supercell().NumAtoms())
	if inst.PhononSupercell().NumAtoms() != inst.Supercell().NumAtoms() {
		fmt.Printf("phonon supercell: %d atoms\n", inst.PhononSupercell().NumAtoms())
	}
	fmt.Printf("primitive cell: %d atoms\n", inst.Primitive().NumAtoms())

	smat := inst.SupercellMatrix()
	fmt.Println("supercell matrix:")
	for i := 0; i < 3; i++ {
		fmt.Printf("  %3d %3d %3d\n", smat[i][0], smat[i][1], smat[i][2])
	}

	status := func(ok bool) string {
		if ok {
			return "set"
		}
		return "not set"
	}
	fmt.Printf("fc3: %s\n", status(inst.FC3() != nil))
	fmt.Printf("fc2: %s\n", status(inst.FC2() != nil))
	if ia := inst.Interaction(); ia != nil {
		fmt.Printf("mesh: %d %d %d (nac %s)\n",
			ia.Mesh[0], ia.Mesh[1], ia.Mesh[2], status(ia.NACParams != nil))
	}
	return nil
}

func runUnits(cmd *cobra.Command, args []string) error {
	names := calculator.Names()
	if !showAll && len(args) == 1 {
		names = []string{args[0]}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CALCULATOR\tFREQ->THZ\tNAC\tDIST->A\tCELL FILE")
	for _, name := range names {
		u, err := calculator.DefaultUnits(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%s\n",
			name, u.Factor, u.NACFactor, u.DistanceToA, u.CellFilename)
	}
	return w.Flush()
}

func runFreqs(cmd *cobra.Command, args []string) error {
	inst, err := load(cmd)
	if err != nil {
		return err
	}

	freqs, err := inst.GammaFrequencies()
	if err != nil {
		return err
	}

	fmt.Println("gamma-point frequencies (THz):")
	for i, f := range freqs {
		fmt.Printf("  band %3d: %10.4f\n", i+1, f)
	}
	fmt.Println()

	graph := asciigraph.Plot(freqs,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("frequency by band index"),
	)
	fmt.Println(graph)

	if svgFile != "" {
		svg := export.SpectrumToSVG(freqs, 640, 360, "#4477aa")
		if err := os.WriteFile(svgFile, []byte(svg), 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}
	return nil
}
