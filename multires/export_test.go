// SPDX-License-Identifier: MIT

package multires

// ResolveThreads exposes resolveThreads to package multires_test.
var ResolveThreads = resolveThreads
