// Package preflight provides readiness checks for the conversion tool and the
// filesystem paths docbatch depends on.
//
// These checks run in two contexts:
//   - The workflow engine calls CheckTool before starting a batch. A batch is
//     refused when the tool cannot be found or does not answer --version.
//   - The CLI "docbatch status" command renders RunAll results and the tool
//     readiness alongside optional PDF engine availability.
package preflight
