package zkasm

// Trailer is the fixed epilogue appended once, after every function's
// zkASM has been emitted, per spec.md §4.3's exit rule. It jumps back to
// "finalizeExecution" for as long as ${beforeLast()} is negative, then falls
// through to the unconditional jump back to "start". The text is verbatim from original_source/src/codegen.rs's
// `parse` function.
const Trailer = "\nfinalizeExecution:\n\t${beforeLast()}  :JMPN(finalizeExecution)\n                     :JMP(start)"
