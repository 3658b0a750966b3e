package erasure

// langTypes holds the public top-level types of java.lang, which every
// compilation unit imports implicitly
var langTypes = typeSet(
	// interfaces
	"Appendable", "AutoCloseable", "CharSequence", "Cloneable", "Comparable",
	"Iterable", "ProcessHandle", "Readable", "Runnable",
	// classes
	"Boolean", "Byte", "Character", "Class", "ClassLoader", "ClassValue",
	"Compiler", "Double", "Enum", "Float", "InheritableThreadLocal", "Integer",
	"Long", "Math", "Module", "ModuleLayer", "Number", "Object", "Package",
	"Process", "ProcessBuilder", "Record", "Runtime", "RuntimePermission",
	"SecurityManager", "Short", "StackTraceElement", "StackWalker", "StrictMath",
	"String", "StringBuffer", "StringBuilder", "System", "Thread", "ThreadGroup", "ThreadLocal", "Throwable", "Void",
	// exceptions
	"ArithmeticException", "ArrayIndexOutOfBoundsException",
	"ArrayStoreException", "ClassCastException", "ClassNotFoundException",
	"CloneNotSupportedException", "EnumConstantNotPresentException", "Exception",
	"IllegalAccessException", "IllegalArgumentException",
	"IllegalCallerException", "IllegalMonitorStateException",
	"IllegalStateException", "IllegalThreadStateException",
	"IndexOutOfBoundsException", "InstantiationException", "InterruptedException",
	"LayerInstantiationException", "MatchException", "NegativeArraySizeException",
	"NoSuchFieldException", "NoSuchMethodException", "NullPointerException",
	"NumberFormatException", "ReflectiveOperationException", "RuntimeException",
	"SecurityException", "StringIndexOutOfBoundsException",
	"TypeNotPresentException", "UnsupportedOperationException",
	"WrongThreadException",
	// errors
	"AbstractMethodError", "AssertionError", "BootstrapMethodError",
	"ClassCircularityError", "ClassFormatError", "Error",
	"ExceptionInInitializerError", "IllegalAccessError",
	"IncompatibleClassChangeError", "InstantiationError", "InternalError",
	"LinkageError", "NoClassDefFoundError", "NoSuchFieldError",
	"NoSuchMethodError", "OutOfMemoryError", "StackOverflowError", "ThreadDeath",
	"UnknownError", "UnsatisfiedLinkError", "UnsupportedClassVersionError",
	"VerifyError", "VirtualMachineError",
	// annotations
	"Deprecated", "FunctionalInterface", "Override", "SafeVarargs",
	"SuppressWarnings",
)

func typeSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
