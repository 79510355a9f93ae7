// Package fuzztests houses Go fuzz harnesses for the analyzer front end:
// AST dump decoding (text and binary) followed by semantic analysis. The
// goal is to guard against panics and hangs on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через astio и sema.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
