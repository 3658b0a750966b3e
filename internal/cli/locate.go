package cli

import (
	"github.com/spf13/cobra"

	"github.com/toyz/locus/internal/service"
)

func (a *app) newLocateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <signature>...",
		Short: "Locate the declarations matching compiled signatures",
		Long: `Locate prints the line range of the declaration matching each signature.

Signatures may be written as Type#name(params), as Method.toString() or
Constructor.toString() output, or as a JVM member reference.

Examples:
  locus locate 'org.samples.Person#getAge(int, Object[])'
  locus locate 'public org.samples.Person(java.lang.String,int)'
  locus locate 'org/samples/Person.getAge:(I[Ljava/lang/Object;)I'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			return a.writeResults(svc.LocateAll(cmd.Context(), args, nil))
		},
	}
}

func (a *app) newOutlineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "outline <type|file>",
		Short: "List the declarations of a type with their erased signatures",
		Long: `Outline lists every method and constructor of a type, or of a Java
source file, next to its erased signature and source range. Use it to see
why a signature did not match.

Examples:
  locus outline org.samples.Person
  locus outline 'org.samples.Person$Address'
  locus outline src/main/java/org/samples/Person.java`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			var outline *service.Outline
			if svc.IsSourceFile(args[0]) {
				outline, err = svc.OutlineFile(args[0])
			} else {
				outline, err = svc.Outline(args[0])
			}
			if err != nil {
				return err
			}

			w, err := a.writer()
			if err != nil {
				return err
			}
			return w.Outline(outline)
		},
	}
}
